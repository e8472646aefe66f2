package job

import (
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/pkg/unlock"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReminderJobEmitsForUpcomingEntries(t *testing.T) {
	assert := assert.New(t)
	unlockAt := scanNow.Add(20 * time.Hour)
	capsule := timeCapsule(3, unlockAt)
	entry := &mng.JournalEntry{
		ID:     primitive.NewObjectID(),
		UserID: 4,
		Date:   "2026-07-15",
		UnlockCondition: mng.UnlockCondition{
			UnlockMode: string(unlock.ModeTime),
			UnlockAt:   &unlockAt,
		},
	}
	capsuleRepo := &fakeCapsuleRepo{upcoming: []*mng.Capsule{capsule}}
	journalRepo := &fakeJournalRepo{upcoming: []*mng.JournalEntry{entry}}
	notifier := &fakeNotifier{}

	job := NewReminderJob(capsuleRepo, journalRepo, notifier, noopLocker{})
	job.now = func() time.Time { return scanNow }
	job.Run()

	assert.Len(notifier.reminders, 2)
	assert.Equal("capsule", notifier.reminders[0].kind)
	assert.Equal(uint64(3), notifier.reminders[0].ownerID)
	assert.Equal("journal", notifier.reminders[1].kind)
}

func TestReminderJobEmitFailureDoesNotAbortPass(t *testing.T) {
	assert := assert.New(t)
	first := timeCapsule(1, scanNow.Add(18*time.Hour))
	second := timeCapsule(2, scanNow.Add(19*time.Hour))
	capsuleRepo := &fakeCapsuleRepo{upcoming: []*mng.Capsule{first, second}}
	notifier := &fakeNotifier{failFirstReminder: true}

	job := NewReminderJob(capsuleRepo, &fakeJournalRepo{}, notifier, noopLocker{})
	job.now = func() time.Time { return scanNow }
	job.Run()

	assert.Len(notifier.reminders, 1)
	assert.Equal(second.ID.Hex(), notifier.reminders[0].entryID)
}

func TestReminderJobSkipsWhenLockDenied(t *testing.T) {
	assert := assert.New(t)
	capsuleRepo := &fakeCapsuleRepo{upcoming: []*mng.Capsule{timeCapsule(1, scanNow.Add(time.Hour))}}
	notifier := &fakeNotifier{}

	job := NewReminderJob(capsuleRepo, &fakeJournalRepo{}, notifier, noopLocker{denied: true})
	job.Run()

	assert.Empty(notifier.reminders)
}
