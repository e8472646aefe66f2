package service

import (
	"PastPort/internal/api/dto"
	"PastPort/internal/pkg/es"
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/pkg/unlock"
	"context"
	"errors"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UnlockOutcomeDone 本次调用完成了解锁转换时对外返回的结果标记
const UnlockOutcomeDone = "unlocked"

type CapsuleService interface {
	Create(ctx context.Context, userID uint64, d *dto.CreateCapsuleDTO) (*dto.CapsuleDTO, error)
	ListSelf(ctx context.Context, userID uint64, page *dto.PageDTO) ([]*dto.CapsuleDTO, error)
	Get(ctx context.Context, id string) (*dto.CapsuleDTO, error)
	Update(ctx context.Context, id string, d *dto.UpdateCapsuleDTO) (*dto.CapsuleDTO, error)
	Delete(ctx context.Context, id string) error
	// Unlock 手动解锁：评估、持久化、事件三步同步执行。
	// 错误答案只返回结果标记，不泄露任何内容。
	Unlock(ctx context.Context, id string, answer string) (*dto.UnlockResultDTO, error)
	OwnerOf(ctx context.Context, id string) (uint64, error)
}

type CapsuleServiceImpl struct {
	capsuleRepo         mng.CapsuleRepo
	esRepo              es.CapsuleRepo
	notificationService NotificationService
	now                 func() time.Time
}

func NewCapsuleService(
	capsuleRepo mng.CapsuleRepo,
	esRepo es.CapsuleRepo,
	notificationService NotificationService,
) CapsuleService {
	return &CapsuleServiceImpl{
		capsuleRepo:         capsuleRepo,
		esRepo:              esRepo,
		notificationService: notificationService,
		now:                 time.Now,
	}
}

func (s *CapsuleServiceImpl) Create(ctx context.Context, userID uint64, d *dto.CreateCapsuleDTO) (*dto.CapsuleDTO, error) {
	cond, err := buildUnlockCondition(&d.Unlock)
	if err != nil {
		return nil, err
	}

	media, hdelKeys, err := bindMedia(ctx, d.Media)
	if err != nil {
		return nil, err
	}

	now := s.now()
	capsule := &mng.Capsule{
		UserID:          userID,
		Title:           d.Title,
		Emoji:           d.Emoji,
		Content:         d.Content,
		Media:           media,
		IsPublic:        d.IsPublic,
		UnlockCondition: cond,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	id, err := s.capsuleRepo.Create(ctx, capsule)
	if err != nil {
		return nil, err
	}
	capsule.ID = id

	releaseMediaLedger(hdelKeys)
	return capsuleView(capsule), nil
}

func (s *CapsuleServiceImpl) ListSelf(ctx context.Context, userID uint64, page *dto.PageDTO) ([]*dto.CapsuleDTO, error) {
	page.Normalize()
	list, err := s.capsuleRepo.ListByUser(ctx, userID, int64(page.Size), int64((page.Page-1)*page.Size))
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CapsuleDTO, 0, len(list))
	for _, c := range list {
		result = append(result, capsuleView(c))
	}
	return result, nil
}

func (s *CapsuleServiceImpl) Get(ctx context.Context, id string) (*dto.CapsuleDTO, error) {
	capsule, err := s.getByHexID(ctx, id)
	if err != nil {
		return nil, err
	}
	return capsuleView(capsule), nil
}

func (s *CapsuleServiceImpl) Update(ctx context.Context, id string, d *dto.UpdateCapsuleDTO) (*dto.CapsuleDTO, error) {
	capsule, err := s.getByHexID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.Title != nil {
		capsule.Title = *d.Title
	}
	if d.Emoji != nil {
		capsule.Emoji = *d.Emoji
	}
	if d.Content != nil {
		capsule.Content = *d.Content
	}
	if d.IsPublic != nil {
		capsule.IsPublic = *d.IsPublic
	}
	if d.Media != nil {
		media, hdelKeys, err := bindMedia(ctx, d.Media)
		if err != nil {
			return nil, err
		}
		capsule.Media = media
		releaseMediaLedger(hdelKeys)
	}
	capsule.UpdatedAt = s.now()

	if err = s.capsuleRepo.Update(ctx, capsule); err != nil {
		return nil, err
	}

	s.syncSearchIndex(ctx, capsule)
	return capsuleView(capsule), nil
}

func (s *CapsuleServiceImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrCapsuleNotFound
	}

	if err = s.capsuleRepo.Delete(ctx, oid); err != nil {
		return err
	}

	if err = s.esRepo.DeleteCapsule(ctx, id); err != nil {
		log.ErrorContext(ctx, "delete capsule from search index failed", "capsule_id", id, "err", err)
	}
	return nil
}

func (s *CapsuleServiceImpl) Unlock(ctx context.Context, id string, answer string) (*dto.UnlockResultDTO, error) {
	capsule, err := s.getByHexID(ctx, id)
	if err != nil {
		return nil, err
	}

	outcome, err := unlock.Evaluate(capsule.Condition(), answer, s.now())
	if err != nil {
		var confErr *unlock.ConfigurationError
		if errors.As(err, &confErr) {
			log.ErrorContext(ctx, "capsule unlock condition corrupted",
				"capsule_id", id, "reason", confErr.Reason)
			return nil, UnExpectedError
		}
		return nil, err
	}

	result := &dto.UnlockResultDTO{Outcome: string(outcome)}

	switch outcome {
	case unlock.OutcomeUnlockable:
		now := s.now()
		result.Outcome = UnlockOutcomeDone
		transitioned, err := s.capsuleRepo.MarkUnlocked(ctx, capsule.ID, now)
		if err != nil {
			return nil, err
		}
		capsule.IsUnlocked = true
		if capsule.UnlockedAt == nil {
			capsule.UnlockedAt = &now
		}
		if transitioned {
			if err = s.notificationService.EmitUnlocked(ctx, capsule.UserID, "capsule", id, capsule.Title); err != nil {
				return nil, err
			}
			s.syncSearchIndex(ctx, capsule)
		} else {
			// 竞争中落败，状态转换已由他方完成
			result.Outcome = string(unlock.OutcomeAlreadyUnlocked)
		}
		result.Capsule = capsuleView(capsule)

	case unlock.OutcomeAlreadyUnlocked:
		result.Capsule = capsuleView(capsule)
	}

	return result, nil
}

// OwnerOf 供 authz 注册表使用的属主查询
func (s *CapsuleServiceImpl) OwnerOf(ctx context.Context, id string) (uint64, error) {
	capsule, err := s.getByHexID(ctx, id)
	if err != nil {
		return 0, err
	}
	return capsule.UserID, nil
}

func (s *CapsuleServiceImpl) getByHexID(ctx context.Context, id string) (*mng.Capsule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrCapsuleNotFound
	}
	capsule, err := s.capsuleRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCapsuleNotFound
		}
		return nil, err
	}
	return capsule, nil
}

// syncSearchIndex 只有已解锁的公开胶囊进入检索，其余一律移除。
// 检索属辅助能力，同步失败不影响主流程。
func (s *CapsuleServiceImpl) syncSearchIndex(ctx context.Context, c *mng.Capsule) {
	id := c.ID.Hex()
	if c.IsUnlocked && c.IsPublic {
		doc := &es.CapsuleES{
			ID:        id,
			UserID:    c.UserID,
			Title:     c.Title,
			Emoji:     c.Emoji,
			Content:   c.Content,
			IsPublic:  c.IsPublic,
			CreatedAt: c.CreatedAt,
		}
		if c.UnlockedAt != nil {
			doc.UnlockedAt = *c.UnlockedAt
		}
		if err := s.esRepo.IndexCapsule(ctx, doc); err != nil {
			log.ErrorContext(ctx, "index capsule failed", "capsule_id", id, "err", err)
		}
		return
	}

	if err := s.esRepo.DeleteCapsule(ctx, id); err != nil {
		log.ErrorContext(ctx, "delete capsule from search index failed", "capsule_id", id, "err", err)
	}
}

// capsuleView 未解锁时只下发元数据与谜面，正文与媒体不出库外
func capsuleView(c *mng.Capsule) *dto.CapsuleDTO {
	view := &dto.CapsuleDTO{
		ID:         c.ID.Hex(),
		UserID:     c.UserID,
		Title:      c.Title,
		Emoji:      c.Emoji,
		IsPublic:   c.IsPublic,
		UnlockMode: c.UnlockMode,
		UnlockAt:   c.UnlockAt,
		IsUnlocked: c.IsUnlocked,
		UnlockedAt: c.UnlockedAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}

	if c.UnlockMode == string(unlock.ModeRiddle) {
		view.RiddleQuestion = c.RiddleQuestion
	}
	if c.IsUnlocked {
		view.Content = c.Content
		view.Media = mediaViews(c.Media)
	}
	return view
}
