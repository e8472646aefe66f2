package job

import (
	"PastPort/internal/pkg/es"
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/pkg/unlock"
	"PastPort/internal/service"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type noopLocker struct {
	denied bool
}

func (l noopLocker) Acquire(_ context.Context, _ string, _ time.Duration) (func(), bool) {
	if l.denied {
		return nil, false
	}
	return func() {}, true
}

type fakeCapsuleRepo struct {
	mng.CapsuleRepo

	due      []*mng.Capsule
	upcoming []*mng.Capsule

	markErr      map[primitive.ObjectID]error
	markedIDs    []primitive.ObjectID
	markUnlocked map[primitive.ObjectID]bool
}

func (f *fakeCapsuleRepo) FindDueLocked(_ context.Context, _ time.Time) ([]*mng.Capsule, error) {
	return f.due, nil
}

func (f *fakeCapsuleRepo) FindUpcoming(_ context.Context, _, _ time.Time) ([]*mng.Capsule, error) {
	return f.upcoming, nil
}

func (f *fakeCapsuleRepo) MarkUnlocked(_ context.Context, id primitive.ObjectID, _ time.Time) (bool, error) {
	if err := f.markErr[id]; err != nil {
		return false, err
	}
	if f.markUnlocked == nil {
		f.markUnlocked = map[primitive.ObjectID]bool{}
	}
	if f.markUnlocked[id] {
		return false, nil
	}
	f.markUnlocked[id] = true
	f.markedIDs = append(f.markedIDs, id)
	return true, nil
}

type fakeJournalRepo struct {
	mng.JournalRepo

	due      []*mng.JournalEntry
	upcoming []*mng.JournalEntry

	markedIDs []primitive.ObjectID
}

func (f *fakeJournalRepo) FindDueLocked(_ context.Context, _ time.Time) ([]*mng.JournalEntry, error) {
	return f.due, nil
}

func (f *fakeJournalRepo) FindUpcoming(_ context.Context, _, _ time.Time) ([]*mng.JournalEntry, error) {
	return f.upcoming, nil
}

func (f *fakeJournalRepo) MarkUnlocked(_ context.Context, id primitive.ObjectID, _ time.Time) (bool, error) {
	f.markedIDs = append(f.markedIDs, id)
	return true, nil
}

type fakeESRepo struct {
	indexed []*es.CapsuleES
}

func (f *fakeESRepo) IndexCapsule(_ context.Context, c *es.CapsuleES) error {
	f.indexed = append(f.indexed, c)
	return nil
}

func (f *fakeESRepo) DeleteCapsule(_ context.Context, _ string) error {
	return nil
}

func (f *fakeESRepo) SearchCapsules(_ context.Context, _ string, _, _ int) ([]*es.CapsuleES, error) {
	return nil, nil
}

type emitted struct {
	kind    string
	entryID string
	ownerID uint64
}

type fakeNotifier struct {
	service.NotificationService

	unlocked  []emitted
	reminders []emitted
	emitErr   error

	failFirstReminder bool
}

func (f *fakeNotifier) EmitUnlocked(_ context.Context, ownerID uint64, entryKind, entryID, _ string) error {
	if f.emitErr != nil {
		return f.emitErr
	}
	f.unlocked = append(f.unlocked, emitted{kind: entryKind, entryID: entryID, ownerID: ownerID})
	return nil
}

func (f *fakeNotifier) EmitReminder(_ context.Context, ownerID uint64, entryKind, entryID, _ string, _ time.Time) error {
	if f.failFirstReminder {
		f.failFirstReminder = false
		return errors.New("mongo down")
	}
	if f.emitErr != nil {
		return f.emitErr
	}
	f.reminders = append(f.reminders, emitted{kind: entryKind, entryID: entryID, ownerID: ownerID})
	return nil
}

var scanNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func timeCapsule(userID uint64, unlockAt time.Time) *mng.Capsule {
	return &mng.Capsule{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Title:  "定时胶囊",
		UnlockCondition: mng.UnlockCondition{
			UnlockMode: string(unlock.ModeTime),
			UnlockAt:   &unlockAt,
		},
	}
}

func newScanFixture(capsuleRepo *fakeCapsuleRepo, journalRepo *fakeJournalRepo) (*UnlockScanJob, *fakeESRepo, *fakeNotifier) {
	esRepo := &fakeESRepo{}
	notifier := &fakeNotifier{}
	job := NewUnlockScanJob(capsuleRepo, journalRepo, esRepo, notifier, noopLocker{})
	job.now = func() time.Time { return scanNow }
	return job, esRepo, notifier
}

func TestUnlockScanUnlocksOverdueCapsuleOnce(t *testing.T) {
	assert := assert.New(t)
	capsule := timeCapsule(1, scanNow.Add(-time.Hour))
	repo := &fakeCapsuleRepo{due: []*mng.Capsule{capsule}}
	job, _, notifier := newScanFixture(repo, &fakeJournalRepo{})

	job.Run()
	assert.Equal([]primitive.ObjectID{capsule.ID}, repo.markedIDs)
	assert.Len(notifier.unlocked, 1)
	assert.Equal(capsule.ID.Hex(), notifier.unlocked[0].entryID)
	assert.Equal(uint64(1), notifier.unlocked[0].ownerID)

	// 第二轮：条件更新已不再命中，不得重复通知
	job.Run()
	assert.Len(notifier.unlocked, 1)
}

func TestUnlockScanSkipsAlreadyUnlockedEntries(t *testing.T) {
	assert := assert.New(t)
	capsule := timeCapsule(1, scanNow.Add(-time.Hour))
	capsule.IsUnlocked = true
	repo := &fakeCapsuleRepo{due: []*mng.Capsule{capsule}}
	job, _, notifier := newScanFixture(repo, &fakeJournalRepo{})

	job.Run()

	assert.Empty(repo.markedIDs)
	assert.Empty(notifier.unlocked)
}

func TestUnlockScanNeverUnlocksRiddleEntries(t *testing.T) {
	assert := assert.New(t)
	riddle := &mng.Capsule{
		ID:     primitive.NewObjectID(),
		UserID: 1,
		Title:  "谜题胶囊",
		UnlockCondition: mng.UnlockCondition{
			UnlockMode:       string(unlock.ModeRiddle),
			RiddleAnswerHash: unlock.HashAnswer("needle"),
		},
	}
	// 即使查询谓词失效让谜题内容混入扫描，评估器也会拒绝解锁
	repo := &fakeCapsuleRepo{due: []*mng.Capsule{riddle}}
	job, _, notifier := newScanFixture(repo, &fakeJournalRepo{})

	job.Run()

	assert.Empty(repo.markedIDs)
	assert.Empty(notifier.unlocked)
}

func TestUnlockScanPerEntryFailureDoesNotAbortPass(t *testing.T) {
	assert := assert.New(t)
	broken := timeCapsule(1, scanNow.Add(-time.Hour))
	healthy := timeCapsule(2, scanNow.Add(-time.Hour))
	repo := &fakeCapsuleRepo{
		due:     []*mng.Capsule{broken, healthy},
		markErr: map[primitive.ObjectID]error{broken.ID: errors.New("mongo down")},
	}
	job, _, notifier := newScanFixture(repo, &fakeJournalRepo{})

	job.Run()

	assert.Equal([]primitive.ObjectID{healthy.ID}, repo.markedIDs)
	assert.Len(notifier.unlocked, 1)
	assert.Equal(uint64(2), notifier.unlocked[0].ownerID)
}

func TestUnlockScanIndexesPublicCapsules(t *testing.T) {
	assert := assert.New(t)
	public := timeCapsule(1, scanNow.Add(-time.Hour))
	public.IsPublic = true
	public.Content = "公开内容"
	private := timeCapsule(2, scanNow.Add(-time.Hour))
	repo := &fakeCapsuleRepo{due: []*mng.Capsule{public, private}}
	job, esRepo, _ := newScanFixture(repo, &fakeJournalRepo{})

	job.Run()

	assert.Len(esRepo.indexed, 1)
	assert.Equal(public.ID.Hex(), esRepo.indexed[0].ID)
	assert.Equal("公开内容", esRepo.indexed[0].Content)
}

func TestUnlockScanCoversJournalEntries(t *testing.T) {
	assert := assert.New(t)
	unlockAt := scanNow.Add(-time.Minute)
	entry := &mng.JournalEntry{
		ID:     primitive.NewObjectID(),
		UserID: 7,
		Date:   "2026-07-01",
		UnlockCondition: mng.UnlockCondition{
			UnlockMode: string(unlock.ModeTime),
			UnlockAt:   &unlockAt,
		},
	}
	journalRepo := &fakeJournalRepo{due: []*mng.JournalEntry{entry}}
	job, _, notifier := newScanFixture(&fakeCapsuleRepo{}, journalRepo)

	job.Run()

	assert.Equal([]primitive.ObjectID{entry.ID}, journalRepo.markedIDs)
	assert.Len(notifier.unlocked, 1)
	assert.Equal("journal", notifier.unlocked[0].kind)
}

func TestUnlockScanSkipsWhenLockDenied(t *testing.T) {
	assert := assert.New(t)
	capsule := timeCapsule(1, scanNow.Add(-time.Hour))
	repo := &fakeCapsuleRepo{due: []*mng.Capsule{capsule}}
	notifier := &fakeNotifier{}
	job := NewUnlockScanJob(repo, &fakeJournalRepo{}, &fakeESRepo{}, notifier, noopLocker{denied: true})

	job.Run()

	assert.Empty(repo.markedIDs)
	assert.Empty(notifier.unlocked)
}
