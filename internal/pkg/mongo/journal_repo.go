package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type JournalRepo interface {
	Create(ctx context.Context, e *JournalEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*JournalEntry, error)
	GetByUserDate(ctx context.Context, userID uint64, date string) (*JournalEntry, error)
	ListByUserMonth(ctx context.Context, userID uint64, monthPrefix string) ([]*JournalEntry, error)
	Update(ctx context.Context, e *JournalEntry) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindDueLocked(ctx context.Context, now time.Time) ([]*JournalEntry, error)
	FindUpcoming(ctx context.Context, from, to time.Time) ([]*JournalEntry, error)
	MarkUnlocked(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

type journalRepoImpl struct {
	col *mongo.Collection
}

func NewJournalRepo(db *mongo.Database) JournalRepo {
	return &journalRepoImpl{
		col: db.Collection("journal_entries"),
	}
}

func (s *journalRepoImpl) Create(ctx context.Context, e *JournalEntry) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, e)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *journalRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*JournalEntry, error) {
	var e JournalEntry
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *journalRepoImpl) GetByUserDate(ctx context.Context, userID uint64, date string) (*JournalEntry, error) {
	var e JournalEntry
	err := s.col.FindOne(ctx, bson.M{"user_id": userID, "date": date}).Decode(&e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByUserMonth 按月拉取，monthPrefix 形如 "2026-08"
func (s *journalRepoImpl) ListByUserMonth(ctx context.Context, userID uint64, monthPrefix string) ([]*JournalEntry, error) {
	filter := bson.M{
		"user_id": userID,
		"date":    bson.M{"$regex": "^" + monthPrefix},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*JournalEntry
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *journalRepoImpl) Update(ctx context.Context, e *JournalEntry) error {
	filter := bson.M{"_id": e.ID}
	update := bson.M{"$set": bson.M{
		"title":              e.Title,
		"emoji":              e.Emoji,
		"content":            e.Content,
		"media":              e.Media,
		"unlock_mode":        e.UnlockMode,
		"unlock_at":          e.UnlockAt,
		"riddle_question":    e.RiddleQuestion,
		"riddle_answer_hash": e.RiddleAnswerHash,
		"updated_at":         e.UpdatedAt,
	}}
	_, err := s.col.UpdateOne(ctx, filter, update)
	return err
}

func (s *journalRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindDueLocked 查询到期未解锁的定时手账
func (s *journalRepoImpl) FindDueLocked(ctx context.Context, now time.Time) ([]*JournalEntry, error) {
	filter := bson.M{
		"unlock_mode": "time",
		"is_unlocked": false,
		"unlock_at":   bson.M{"$lte": now},
	}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*JournalEntry
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *journalRepoImpl) FindUpcoming(ctx context.Context, from, to time.Time) ([]*JournalEntry, error) {
	filter := bson.M{
		"unlock_mode": "time",
		"is_unlocked": false,
		"unlock_at":   bson.M{"$gte": from, "$lt": to},
	}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*JournalEntry
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkUnlocked 同 CapsuleRepo：条件更新保证转换只发生一次
func (s *journalRepoImpl) MarkUnlocked(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{"_id": id, "is_unlocked": false}
	update := bson.M{"$set": bson.M{"is_unlocked": true, "unlocked_at": at}}

	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
