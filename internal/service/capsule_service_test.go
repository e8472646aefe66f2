package service

import (
	"PastPort/internal/pkg/es"
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/pkg/unlock"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeCapsuleRepo struct {
	mng.CapsuleRepo

	capsules map[primitive.ObjectID]*mng.Capsule

	markUnlockedCalls int
	markUnlockedLost  bool
}

func (f *fakeCapsuleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*mng.Capsule, error) {
	c, ok := f.capsules[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return c, nil
}

func (f *fakeCapsuleRepo) MarkUnlocked(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	f.markUnlockedCalls++
	if f.markUnlockedLost {
		return false, nil
	}
	c := f.capsules[id]
	c.IsUnlocked = true
	c.UnlockedAt = &at
	return true, nil
}

type fakeESRepo struct {
	indexed []*es.CapsuleES
	deleted []string
}

func (f *fakeESRepo) IndexCapsule(_ context.Context, c *es.CapsuleES) error {
	f.indexed = append(f.indexed, c)
	return nil
}

func (f *fakeESRepo) DeleteCapsule(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeESRepo) SearchCapsules(_ context.Context, _ string, _, _ int) ([]*es.CapsuleES, error) {
	return nil, nil
}

type fakeNotifier struct {
	NotificationService

	unlocked       []string
	unlockedTitles []string
}

func (f *fakeNotifier) EmitUnlocked(_ context.Context, _ uint64, _, entryID, title string) error {
	f.unlocked = append(f.unlocked, entryID)
	f.unlockedTitles = append(f.unlockedTitles, title)
	return nil
}

var baseNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newCapsuleFixture(capsules ...*mng.Capsule) (*CapsuleServiceImpl, *fakeCapsuleRepo, *fakeESRepo, *fakeNotifier) {
	repo := &fakeCapsuleRepo{capsules: map[primitive.ObjectID]*mng.Capsule{}}
	for _, c := range capsules {
		repo.capsules[c.ID] = c
	}
	esRepo := &fakeESRepo{}
	notifier := &fakeNotifier{}

	svc := NewCapsuleService(repo, esRepo, notifier).(*CapsuleServiceImpl)
	svc.now = func() time.Time { return baseNow }
	return svc, repo, esRepo, notifier
}

func riddleCapsule(answer string) *mng.Capsule {
	return &mng.Capsule{
		ID:      primitive.NewObjectID(),
		UserID:  1,
		Title:   "致十年后的自己",
		Content: "秘密内容",
		UnlockCondition: mng.UnlockCondition{
			UnlockMode:       string(unlock.ModeRiddle),
			RiddleQuestion:   "缝衣服用什么",
			RiddleAnswerHash: unlock.HashAnswer(answer),
		},
	}
}

func TestUnlockRiddleNormalizesAnswer(t *testing.T) {
	assert := assert.New(t)
	capsule := riddleCapsule("needle")
	svc, repo, _, notifier := newCapsuleFixture(capsule)

	result, err := svc.Unlock(context.Background(), capsule.ID.Hex(), "  Needle ")

	assert.NoError(err)
	assert.Equal(UnlockOutcomeDone, result.Outcome)
	assert.Equal(1, repo.markUnlockedCalls)
	assert.Equal([]string{capsule.ID.Hex()}, notifier.unlocked)
	assert.NotNil(result.Capsule)
	assert.Equal("秘密内容", result.Capsule.Content)
	assert.True(result.Capsule.IsUnlocked)
}

func TestUnlockRiddleWrongAnswerRevealsNothing(t *testing.T) {
	assert := assert.New(t)
	capsule := riddleCapsule("needle")
	svc, repo, _, notifier := newCapsuleFixture(capsule)

	result, err := svc.Unlock(context.Background(), capsule.ID.Hex(), "thread")

	assert.NoError(err)
	assert.Equal(string(unlock.OutcomeIncorrectAnswer), result.Outcome)
	assert.Nil(result.Capsule)
	assert.Zero(repo.markUnlockedCalls)
	assert.Empty(notifier.unlocked)
	assert.False(capsule.IsUnlocked)
}

func TestUnlockRiddleWithoutAnswer(t *testing.T) {
	assert := assert.New(t)
	capsule := riddleCapsule("needle")
	svc, _, _, _ := newCapsuleFixture(capsule)

	result, err := svc.Unlock(context.Background(), capsule.ID.Hex(), "")

	assert.NoError(err)
	assert.Equal(string(unlock.OutcomeAnswerRequired), result.Outcome)
	assert.Nil(result.Capsule)
}

func TestUnlockTimeCapsuleBeforeDue(t *testing.T) {
	assert := assert.New(t)
	unlockAt := baseNow.Add(24 * time.Hour)
	capsule := &mng.Capsule{
		ID:      primitive.NewObjectID(),
		UserID:  1,
		Title:   "明天见",
		Content: "秘密内容",
		UnlockCondition: mng.UnlockCondition{
			UnlockMode: string(unlock.ModeTime),
			UnlockAt:   &unlockAt,
		},
	}
	svc, repo, _, _ := newCapsuleFixture(capsule)

	result, err := svc.Unlock(context.Background(), capsule.ID.Hex(), "")

	assert.NoError(err)
	assert.Equal(string(unlock.OutcomeNotYetUnlockable), result.Outcome)
	assert.Nil(result.Capsule)
	assert.Zero(repo.markUnlockedCalls)
}

func TestUnlockAlreadyUnlockedIsIdempotent(t *testing.T) {
	assert := assert.New(t)
	unlockedAt := baseNow.Add(-time.Hour)
	capsule := &mng.Capsule{
		ID:      primitive.NewObjectID(),
		UserID:  1,
		Title:   "旧胶囊",
		Content: "秘密内容",
		UnlockCondition: mng.UnlockCondition{
			UnlockMode: string(unlock.ModeNone),
			IsUnlocked: true,
			UnlockedAt: &unlockedAt,
		},
	}
	svc, repo, _, notifier := newCapsuleFixture(capsule)

	result, err := svc.Unlock(context.Background(), capsule.ID.Hex(), "")

	assert.NoError(err)
	assert.Equal(string(unlock.OutcomeAlreadyUnlocked), result.Outcome)
	assert.NotNil(result.Capsule)
	assert.Equal("秘密内容", result.Capsule.Content)
	assert.Zero(repo.markUnlockedCalls)
	assert.Empty(notifier.unlocked)
	assert.Equal(unlockedAt, *capsule.UnlockedAt)
}

func TestUnlockRaceLoserSkipsNotification(t *testing.T) {
	assert := assert.New(t)
	capsule := riddleCapsule("needle")
	svc, repo, _, notifier := newCapsuleFixture(capsule)
	repo.markUnlockedLost = true

	result, err := svc.Unlock(context.Background(), capsule.ID.Hex(), "needle")

	assert.NoError(err)
	assert.Equal(string(unlock.OutcomeAlreadyUnlocked), result.Outcome)
	assert.Empty(notifier.unlocked)
}

func TestUnlockPublicCapsuleEntersSearchIndex(t *testing.T) {
	assert := assert.New(t)
	capsule := riddleCapsule("needle")
	capsule.IsPublic = true
	svc, _, esRepo, _ := newCapsuleFixture(capsule)

	_, err := svc.Unlock(context.Background(), capsule.ID.Hex(), "needle")

	assert.NoError(err)
	assert.Len(esRepo.indexed, 1)
	assert.Equal(capsule.ID.Hex(), esRepo.indexed[0].ID)
	assert.Equal("秘密内容", esRepo.indexed[0].Content)
}

func TestUnlockPrivateCapsuleStaysOutOfSearchIndex(t *testing.T) {
	assert := assert.New(t)
	capsule := riddleCapsule("needle")
	svc, _, esRepo, _ := newCapsuleFixture(capsule)

	_, err := svc.Unlock(context.Background(), capsule.ID.Hex(), "needle")

	assert.NoError(err)
	assert.Empty(esRepo.indexed)
	assert.Len(esRepo.deleted, 1)
}

func TestGetLockedCapsuleRedactsContent(t *testing.T) {
	assert := assert.New(t)
	capsule := riddleCapsule("needle")
	svc, _, _, _ := newCapsuleFixture(capsule)

	view, err := svc.Get(context.Background(), capsule.ID.Hex())

	assert.NoError(err)
	assert.Empty(view.Content)
	assert.Empty(view.Media)
	assert.Equal("缝衣服用什么", view.RiddleQuestion)
	assert.Equal("致十年后的自己", view.Title)
	assert.False(view.IsUnlocked)
}

func TestGetCapsuleNotFound(t *testing.T) {
	assert := assert.New(t)
	svc, _, _, _ := newCapsuleFixture()

	_, err := svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(err, ErrCapsuleNotFound)

	_, err = svc.Get(context.Background(), "not-a-hex-id")
	assert.ErrorIs(err, ErrCapsuleNotFound)
}

func TestOwnerOf(t *testing.T) {
	assert := assert.New(t)
	capsule := riddleCapsule("needle")
	capsule.UserID = 42
	svc, _, _, _ := newCapsuleFixture(capsule)

	owner, err := svc.OwnerOf(context.Background(), capsule.ID.Hex())

	assert.NoError(err)
	assert.Equal(uint64(42), owner)
}
