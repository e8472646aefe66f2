package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CapsuleRepo interface {
	Create(ctx context.Context, c *Capsule) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Capsule, error)
	ListByUser(ctx context.Context, userID uint64, limit, offset int64) ([]*Capsule, error)
	Update(ctx context.Context, c *Capsule) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindDueLocked(ctx context.Context, now time.Time) ([]*Capsule, error)
	FindUpcoming(ctx context.Context, from, to time.Time) ([]*Capsule, error)
	MarkUnlocked(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	SamplePublicUnlocked(ctx context.Context, size int64) ([]*Capsule, error)
}

type capsuleRepoImpl struct {
	col *mongo.Collection
}

func NewCapsuleRepo(db *mongo.Database) CapsuleRepo {
	return &capsuleRepoImpl{
		col: db.Collection("capsules"),
	}
}

func (s *capsuleRepoImpl) Create(ctx context.Context, c *Capsule) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *capsuleRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Capsule, error) {
	var c Capsule
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByUser 分页获取用户自己的胶囊 (按创建时间倒序)
func (s *capsuleRepoImpl) ListByUser(ctx context.Context, userID uint64, limit, offset int64) ([]*Capsule, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*Capsule
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Update 只覆盖属主可编辑的字段，解锁状态走 MarkUnlocked
func (s *capsuleRepoImpl) Update(ctx context.Context, c *Capsule) error {
	filter := bson.M{"_id": c.ID}
	update := bson.M{"$set": bson.M{
		"title":              c.Title,
		"emoji":              c.Emoji,
		"content":            c.Content,
		"media":              c.Media,
		"is_public":          c.IsPublic,
		"unlock_mode":        c.UnlockMode,
		"unlock_at":          c.UnlockAt,
		"riddle_question":    c.RiddleQuestion,
		"riddle_answer_hash": c.RiddleAnswerHash,
		"updated_at":         c.UpdatedAt,
	}}
	_, err := s.col.UpdateOne(ctx, filter, update)
	return err
}

func (s *capsuleRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindDueLocked 查询到期未解锁的定时胶囊。
// 谜题胶囊永远不会被该查询命中，它们只能由属主答题解锁。
func (s *capsuleRepoImpl) FindDueLocked(ctx context.Context, now time.Time) ([]*Capsule, error) {
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

	var list []*Capsule
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FindUpcoming 查询解锁时间落在 [from, to) 内的未解锁定时胶囊
func (s *capsuleRepoImpl) FindUpcoming(ctx context.Context, from, to time.Time) ([]*Capsule, error) {
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

	var list []*Capsule
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkUnlocked 条件更新实现单向状态转换：
// 只有 is_unlocked 仍为 false 时才写入，返回值表示本次调用是否真正完成了转换。
// 并发场景下输掉竞争的一方拿到 false，据此跳过通知，避免重复。
func (s *capsuleRepoImpl) MarkUnlocked(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{"_id": id, "is_unlocked": false}
	update := bson.M{"$set": bson.M{"is_unlocked": true, "unlocked_at": at}}

	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SamplePublicUnlocked 抽选流：随机取若干已解锁的公开胶囊
func (s *capsuleRepoImpl) SamplePublicUnlocked(ctx context.Context, size int64) ([]*Capsule, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"is_public": true, "is_unlocked": true}}},
		bson.D{{Key: "$sample", Value: bson.M{"size": size}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*Capsule
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
