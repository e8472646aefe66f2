package service

import (
	"PastPort/internal/api/dto"
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/pkg/unlock"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeJournalRepo struct {
	mng.JournalRepo

	entries map[primitive.ObjectID]*mng.JournalEntry
}

func (f *fakeJournalRepo) Create(_ context.Context, e *mng.JournalEntry) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	e.ID = id
	f.entries[id] = e
	return id, nil
}

func (f *fakeJournalRepo) GetByID(_ context.Context, id primitive.ObjectID) (*mng.JournalEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return e, nil
}

func (f *fakeJournalRepo) GetByUserDate(_ context.Context, userID uint64, date string) (*mng.JournalEntry, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.Date == date {
			return e, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeJournalRepo) Update(_ context.Context, e *mng.JournalEntry) error {
	f.entries[e.ID] = e
	return nil
}

func (f *fakeJournalRepo) MarkUnlocked(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	e := f.entries[id]
	if e.IsUnlocked {
		return false, nil
	}
	e.IsUnlocked = true
	e.UnlockedAt = &at
	return true, nil
}

func newJournalFixture(entries ...*mng.JournalEntry) (*JournalServiceImpl, *fakeJournalRepo, *fakeNotifier) {
	repo := &fakeJournalRepo{entries: map[primitive.ObjectID]*mng.JournalEntry{}}
	for _, e := range entries {
		repo.entries[e.ID] = e
	}
	notifier := &fakeNotifier{}

	svc := NewJournalService(repo, notifier).(*JournalServiceImpl)
	svc.now = func() time.Time { return baseNow }
	return svc, repo, notifier
}

func lockedJournal(title string) *mng.JournalEntry {
	unlockAt := baseNow.Add(24 * time.Hour)
	return &mng.JournalEntry{
		ID:      primitive.NewObjectID(),
		UserID:  1,
		Date:    "2026-08-01",
		Title:   title,
		Content: "秘密内容",
		UnlockCondition: mng.UnlockCondition{
			UnlockMode: string(unlock.ModeTime),
			UnlockAt:   &unlockAt,
		},
	}
}

func TestCreateJournalCarriesTitle(t *testing.T) {
	assert := assert.New(t)
	svc, repo, _ := newJournalFixture()

	view, err := svc.Create(context.Background(), 1, &dto.CreateJournalDTO{
		Date:    "2026-08-01",
		Title:   "给未来的我",
		Content: "今天的秘密",
		Unlock:  dto.UnlockConditionDTO{Mode: string(unlock.ModeNone)},
	})

	assert.NoError(err)
	assert.Equal("给未来的我", view.Title)

	stored := repo.entries[mustOID(t, view.ID)]
	assert.Equal("给未来的我", stored.Title)
}

func TestUpdateJournalTitle(t *testing.T) {
	assert := assert.New(t)
	entry := lockedJournal("旧标题")
	svc, repo, _ := newJournalFixture(entry)

	title := "新标题"
	view, err := svc.Update(context.Background(), entry.ID.Hex(), &dto.UpdateJournalDTO{Title: &title})

	assert.NoError(err)
	assert.Equal("新标题", view.Title)
	assert.Equal("新标题", repo.entries[entry.ID].Title)
}

func TestUpdateJournalWithoutTitleKeepsTitle(t *testing.T) {
	assert := assert.New(t)
	entry := lockedJournal("旧标题")
	svc, repo, _ := newJournalFixture(entry)

	emoji := "🌙"
	view, err := svc.Update(context.Background(), entry.ID.Hex(), &dto.UpdateJournalDTO{Emoji: &emoji})

	assert.NoError(err)
	assert.Equal("旧标题", view.Title)
	assert.Equal("旧标题", repo.entries[entry.ID].Title)
}

func TestGetLockedJournalShowsTitleRedactsContent(t *testing.T) {
	assert := assert.New(t)
	entry := lockedJournal("给未来的我")
	svc, _, _ := newJournalFixture(entry)

	view, err := svc.Get(context.Background(), entry.ID.Hex())

	assert.NoError(err)
	assert.Equal("给未来的我", view.Title)
	assert.Equal("2026-08-01", view.Date)
	assert.Empty(view.Content)
	assert.Empty(view.Media)
	assert.False(view.IsUnlocked)
}

func TestUnlockJournalNotificationUsesTitle(t *testing.T) {
	assert := assert.New(t)
	entry := lockedJournal("给未来的我")
	due := baseNow.Add(-time.Hour)
	entry.UnlockAt = &due
	svc, _, notifier := newJournalFixture(entry)

	result, err := svc.Unlock(context.Background(), entry.ID.Hex(), "")

	assert.NoError(err)
	assert.Equal(UnlockOutcomeDone, result.Outcome)
	assert.Equal([]string{"给未来的我"}, notifier.unlockedTitles)
	assert.NotNil(result.Journal)
	assert.Equal("秘密内容", result.Journal.Content)
}

func TestUnlockJournalNotificationFallsBackToDate(t *testing.T) {
	assert := assert.New(t)
	entry := lockedJournal("")
	due := baseNow.Add(-time.Hour)
	entry.UnlockAt = &due
	svc, _, notifier := newJournalFixture(entry)

	_, err := svc.Unlock(context.Background(), entry.ID.Hex(), "")

	assert.NoError(err)
	assert.Equal([]string{"2026-08-01"}, notifier.unlockedTitles)
}

func TestCreateJournalSameDateRejected(t *testing.T) {
	assert := assert.New(t)
	entry := lockedJournal("第一篇")
	svc, _, _ := newJournalFixture(entry)

	_, err := svc.Create(context.Background(), 1, &dto.CreateJournalDTO{
		Date:    "2026-08-01",
		Content: "第二篇",
		Unlock:  dto.UnlockConditionDTO{Mode: string(unlock.ModeNone)},
	})

	assert.ErrorIs(err, ErrJournalDateExist)
}

func mustOID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("invalid object id %q: %v", hex, err)
	}
	return oid
}
