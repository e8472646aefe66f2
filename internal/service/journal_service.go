package service

import (
	"PastPort/internal/api/dto"
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/pkg/unlock"
	"context"
	"errors"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type JournalService interface {
	Create(ctx context.Context, userID uint64, d *dto.CreateJournalDTO) (*dto.JournalDTO, error)
	ListByMonth(ctx context.Context, userID uint64, month string) ([]*dto.JournalDTO, error)
	Get(ctx context.Context, id string) (*dto.JournalDTO, error)
	Update(ctx context.Context, id string, d *dto.UpdateJournalDTO) (*dto.JournalDTO, error)
	Delete(ctx context.Context, id string) error
	Unlock(ctx context.Context, id string, answer string) (*dto.UnlockResultDTO, error)
	OwnerOf(ctx context.Context, id string) (uint64, error)
}

type JournalServiceImpl struct {
	journalRepo         mng.JournalRepo
	notificationService NotificationService
	now                 func() time.Time
}

func NewJournalService(
	journalRepo mng.JournalRepo,
	notificationService NotificationService,
) JournalService {
	return &JournalServiceImpl{
		journalRepo:         journalRepo,
		notificationService: notificationService,
		now:                 time.Now,
	}
}

// Create 同一用户同一天只允许一篇，日期与解锁条件创建后不可变
func (s *JournalServiceImpl) Create(ctx context.Context, userID uint64, d *dto.CreateJournalDTO) (*dto.JournalDTO, error) {
	existing, err := s.journalRepo.GetByUserDate(ctx, userID, d.Date)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrJournalDateExist
	}

	cond, err := buildUnlockCondition(&d.Unlock)
	if err != nil {
		return nil, err
	}

	media, hdelKeys, err := bindMedia(ctx, d.Media)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := &mng.JournalEntry{
		UserID:          userID,
		Date:            d.Date,
		Title:           d.Title,
		Emoji:           d.Emoji,
		Content:         d.Content,
		Media:           media,
		UnlockCondition: cond,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	id, err := s.journalRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	releaseMediaLedger(hdelKeys)
	return journalView(entry), nil
}

func (s *JournalServiceImpl) ListByMonth(ctx context.Context, userID uint64, month string) ([]*dto.JournalDTO, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrParamInvalid
	}

	list, err := s.journalRepo.ListByUserMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.JournalDTO, 0, len(list))
	for _, e := range list {
		result = append(result, journalView(e))
	}
	return result, nil
}

func (s *JournalServiceImpl) Get(ctx context.Context, id string) (*dto.JournalDTO, error) {
	entry, err := s.getByHexID(ctx, id)
	if err != nil {
		return nil, err
	}
	return journalView(entry), nil
}

func (s *JournalServiceImpl) Update(ctx context.Context, id string, d *dto.UpdateJournalDTO) (*dto.JournalDTO, error) {
	entry, err := s.getByHexID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.Title != nil {
		entry.Title = *d.Title
	}
	if d.Emoji != nil {
		entry.Emoji = *d.Emoji
	}
	if d.Content != nil {
		entry.Content = *d.Content
	}
	if d.Media != nil {
		media, hdelKeys, err := bindMedia(ctx, d.Media)
		if err != nil {
			return nil, err
		}
		entry.Media = media
		releaseMediaLedger(hdelKeys)
	}
	entry.UpdatedAt = s.now()

	if err = s.journalRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return journalView(entry), nil
}

func (s *JournalServiceImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrJournalNotFound
	}
	return s.journalRepo.Delete(ctx, oid)
}

func (s *JournalServiceImpl) Unlock(ctx context.Context, id string, answer string) (*dto.UnlockResultDTO, error) {
	entry, err := s.getByHexID(ctx, id)
	if err != nil {
		return nil, err
	}

	outcome, err := unlock.Evaluate(entry.Condition(), answer, s.now())
	if err != nil {
		var confErr *unlock.ConfigurationError
		if errors.As(err, &confErr) {
			log.ErrorContext(ctx, "journal unlock condition corrupted",
				"entry_id", id, "reason", confErr.Reason)
			return nil, UnExpectedError
		}
		return nil, err
	}

	result := &dto.UnlockResultDTO{Outcome: string(outcome)}

	switch outcome {
	case unlock.OutcomeUnlockable:
		now := s.now()
		result.Outcome = UnlockOutcomeDone
		transitioned, err := s.journalRepo.MarkUnlocked(ctx, entry.ID, now)
		if err != nil {
			return nil, err
		}
		entry.IsUnlocked = true
		if entry.UnlockedAt == nil {
			entry.UnlockedAt = &now
		}
		if transitioned {
			if err = s.notificationService.EmitUnlocked(ctx, entry.UserID, "journal", id, entry.DisplayTitle()); err != nil {
				return nil, err
			}
		} else {
			// 竞争中落败，状态转换已由他方完成
			result.Outcome = string(unlock.OutcomeAlreadyUnlocked)
		}
		result.Journal = journalView(entry)

	case unlock.OutcomeAlreadyUnlocked:
		result.Journal = journalView(entry)
	}

	return result, nil
}

// OwnerOf 供 authz 注册表使用的属主查询
func (s *JournalServiceImpl) OwnerOf(ctx context.Context, id string) (uint64, error) {
	entry, err := s.getByHexID(ctx, id)
	if err != nil {
		return 0, err
	}
	return entry.UserID, nil
}

func (s *JournalServiceImpl) getByHexID(ctx context.Context, id string) (*mng.JournalEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrJournalNotFound
	}
	entry, err := s.journalRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrJournalNotFound
		}
		return nil, err
	}
	return entry, nil
}

// journalView 未解锁时只下发元数据与谜面
func journalView(e *mng.JournalEntry) *dto.JournalDTO {
	view := &dto.JournalDTO{
		ID:         e.ID.Hex(),
		UserID:     e.UserID,
		Date:       e.Date,
		Title:      e.Title,
		Emoji:      e.Emoji,
		UnlockMode: e.UnlockMode,
		UnlockAt:   e.UnlockAt,
		IsUnlocked: e.IsUnlocked,
		UnlockedAt: e.UnlockedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}

	if e.UnlockMode == string(unlock.ModeRiddle) {
		view.RiddleQuestion = e.RiddleQuestion
	}
	if e.IsUnlocked {
		view.Content = e.Content
		view.Media = mediaViews(e.Media)
	}
	return view
}
