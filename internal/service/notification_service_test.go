package service

import (
	"PastPort/internal/model"
	"PastPort/internal/pkg/kafka"
	"PastPort/internal/pkg/mail"
	mng "PastPort/internal/pkg/mongo"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeNotificationRepo struct {
	mng.NotificationRepo

	created   []*mng.Notification
	createErr error

	markReadErr error
	deleteErr   error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *mng.Notification) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	f.created = append(f.created, n)
	return primitive.NewObjectID(), nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, _ uint64, _ primitive.ObjectID, _ time.Time) error {
	return f.markReadErr
}

func (f *fakeNotificationRepo) Delete(_ context.Context, _ uint64, _ primitive.ObjectID) error {
	return f.deleteErr
}

type fakeUserRepo struct {
	users map[uint64]*model.User
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User, _ *model.UserPreference) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username != nil && *u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

type fakePrefRepo struct {
	prefs map[uint64]*model.UserPreference
}

func (f *fakePrefRepo) GetByUserID(_ context.Context, userID uint64) (*model.UserPreference, error) {
	return f.prefs[userID], nil
}

func (f *fakePrefRepo) Save(_ context.Context, pref *model.UserPreference) error {
	f.prefs[pref.UserID] = pref
	return nil
}

type fakePublisher struct {
	tasks      []*kafka.MailTask
	publishErr error
}

func (f *fakePublisher) Publish(_ context.Context, task *kafka.MailTask) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.tasks = append(f.tasks, task)
	return nil
}

type fakeMailClient struct {
	sent []string
}

func (f *fakeMailClient) Send(_ context.Context, to, _, _, _ string) (*mail.SendResult, error) {
	f.sent = append(f.sent, to)
	return &mail.SendResult{Status: mail.StatusSent}, nil
}

func strPtr(s string) *string {
	return &s
}

func newEmitterFixture(pref *model.UserPreference) (*NotificationServiceImpl, *fakeNotificationRepo, *fakePublisher) {
	repo := &fakeNotificationRepo{}
	publisher := &fakePublisher{}
	users := &fakeUserRepo{users: map[uint64]*model.User{
		1: {ID: 1, Email: strPtr("alice@example.com"), Nickname: "alice"},
	}}
	prefs := &fakePrefRepo{prefs: map[uint64]*model.UserPreference{}}
	if pref != nil {
		prefs.prefs[1] = pref
	}

	svc := NewNotificationService(repo, users, prefs, publisher, &fakeMailClient{}).(*NotificationServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, publisher
}

func TestEmitUnlockedCreatesRecordAndMailTask(t *testing.T) {
	assert := assert.New(t)
	svc, repo, publisher := newEmitterFixture(&model.UserPreference{
		UserID: 1, EmailEnabled: true, UnlockEmailEnabled: true,
	})

	err := svc.EmitUnlocked(context.Background(), 1, "capsule", "abc", "致十年后的自己")

	assert.NoError(err)
	assert.Len(repo.created, 1)
	n := repo.created[0]
	assert.Equal(uint64(1), n.ReceiverID)
	assert.Equal(mng.NotificationTypeCapsuleUnlocked, n.Type)
	assert.False(n.IsRead)
	assert.NotNil(n.ExpiresAt)
	assert.Equal("abc", n.Data["entry_id"])

	assert.Len(publisher.tasks, 1)
	assert.Equal("alice@example.com", publisher.tasks[0].To)
}

func TestEmitUnlockedEmailDisabledStillCreatesRecord(t *testing.T) {
	assert := assert.New(t)
	svc, repo, publisher := newEmitterFixture(&model.UserPreference{
		UserID: 1, EmailEnabled: false, UnlockEmailEnabled: true,
	})

	err := svc.EmitUnlocked(context.Background(), 1, "capsule", "abc", "致十年后的自己")

	assert.NoError(err)
	assert.Len(repo.created, 1)
	assert.Empty(publisher.tasks)
}

func TestEmitUnlockedUnlockEmailDisabled(t *testing.T) {
	assert := assert.New(t)
	svc, repo, publisher := newEmitterFixture(&model.UserPreference{
		UserID: 1, EmailEnabled: true, UnlockEmailEnabled: false,
	})

	err := svc.EmitUnlocked(context.Background(), 1, "capsule", "abc", "致十年后的自己")

	assert.NoError(err)
	assert.Len(repo.created, 1)
	assert.Empty(publisher.tasks)
}

func TestEmitUnlockedRecordCreateFails(t *testing.T) {
	assert := assert.New(t)
	svc, repo, publisher := newEmitterFixture(&model.UserPreference{
		UserID: 1, EmailEnabled: true, UnlockEmailEnabled: true,
	})
	repo.createErr = errors.New("mongo down")

	err := svc.EmitUnlocked(context.Background(), 1, "capsule", "abc", "致十年后的自己")

	assert.Error(err)
	assert.Empty(publisher.tasks)
}

func TestEmitUnlockedPublishFailureIsSwallowed(t *testing.T) {
	assert := assert.New(t)
	svc, repo, publisher := newEmitterFixture(&model.UserPreference{
		UserID: 1, EmailEnabled: true, UnlockEmailEnabled: true,
	})
	publisher.publishErr = errors.New("kafka down")

	err := svc.EmitUnlocked(context.Background(), 1, "capsule", "abc", "致十年后的自己")

	assert.NoError(err)
	assert.Len(repo.created, 1)
}

func TestEmitFallsBackToDirectMailWithoutPublisher(t *testing.T) {
	assert := assert.New(t)
	repo := &fakeNotificationRepo{}
	mailClient := &fakeMailClient{}
	users := &fakeUserRepo{users: map[uint64]*model.User{
		1: {ID: 1, Email: strPtr("alice@example.com")},
	}}
	prefs := &fakePrefRepo{prefs: map[uint64]*model.UserPreference{
		1: {UserID: 1, EmailEnabled: true, UnlockEmailEnabled: true},
	}}

	svc := NewNotificationService(repo, users, prefs, nil, mailClient).(*NotificationServiceImpl)
	err := svc.EmitReminder(context.Background(), 1, "capsule", "abc", "致十年后的自己", time.Now().Add(3*time.Hour))

	assert.NoError(err)
	assert.Len(repo.created, 1)
	assert.Equal(mng.NotificationTypeUnlockReminder, repo.created[0].Type)
	assert.Equal([]string{"alice@example.com"}, mailClient.sent)
}

func TestMarkReadAlreadyReadIsNoop(t *testing.T) {
	assert := assert.New(t)
	svc, repo, _ := newEmitterFixture(nil)
	repo.markReadErr = mongo.ErrNoDocuments

	err := svc.MarkRead(context.Background(), 1, primitive.NewObjectID().Hex())

	assert.NoError(err)
}

func TestMarkReadInvalidID(t *testing.T) {
	assert := assert.New(t)
	svc, _, _ := newEmitterFixture(nil)

	err := svc.MarkRead(context.Background(), 1, "not-a-hex-id")

	assert.ErrorIs(err, ErrNotificationNotFound)
}

func TestDeleteMissingNotification(t *testing.T) {
	assert := assert.New(t)
	svc, repo, _ := newEmitterFixture(nil)
	repo.deleteErr = mongo.ErrNoDocuments

	err := svc.Delete(context.Background(), 1, primitive.NewObjectID().Hex())

	assert.ErrorIs(err, ErrNotificationNotFound)
}
