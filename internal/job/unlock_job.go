package job

import (
	"PastPort/internal/pkg/consts"
	"PastPort/internal/pkg/es"
	"PastPort/internal/pkg/logger"
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/pkg/unlock"
	"PastPort/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// UnlockScanJob 每小时扫描到期未解锁的定时内容并完成解锁。
// 谜题内容不在扫描范围内，它们只能由属主答题解锁。
type UnlockScanJob struct {
	capsuleRepo mng.CapsuleRepo
	journalRepo mng.JournalRepo
	esRepo      es.CapsuleRepo
	notifier    service.NotificationService
	locker      Locker
	now         func() time.Time
}

func NewUnlockScanJob(
	capsuleRepo mng.CapsuleRepo,
	journalRepo mng.JournalRepo,
	esRepo es.CapsuleRepo,
	notifier service.NotificationService,
	locker Locker,
) *UnlockScanJob {
	return &UnlockScanJob{
		capsuleRepo: capsuleRepo,
		journalRepo: journalRepo,
		esRepo:      esRepo,
		notifier:    notifier,
		locker:      locker,
		now:         time.Now,
	}
}

func (s *UnlockScanJob) Run() {
	traceID := "job-unlock-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	release, ok := s.locker.Acquire(ctx, consts.UnlockJobLock, 10*time.Minute)
	if !ok {
		return
	}
	defer release()

	now := s.now()
	unlocked := 0

	capsules, err := s.capsuleRepo.FindDueLocked(ctx, now)
	if err != nil {
		log.ErrorContext(ctx, "query due capsules failed", "err", err)
	} else {
		for _, c := range capsules {
			if s.unlockCapsule(ctx, c, now) {
				unlocked++
			}
		}
	}

	entries, err := s.journalRepo.FindDueLocked(ctx, now)
	if err != nil {
		log.ErrorContext(ctx, "query due journal entries failed", "err", err)
	} else {
		for _, e := range entries {
			if s.unlockJournal(ctx, e, now) {
				unlocked++
			}
		}
	}

	if unlocked > 0 {
		log.InfoContext(ctx, "unlock scan finished", "unlocked_count", unlocked)
	}
}

// unlockCapsule 单条失败只记录日志，不中断整轮扫描
func (s *UnlockScanJob) unlockCapsule(ctx context.Context, c *mng.Capsule, now time.Time) bool {
	outcome, err := unlock.Evaluate(c.Condition(), "", now)
	if err != nil {
		log.ErrorContext(ctx, "capsule unlock condition corrupted", "capsule_id", c.ID.Hex(), "err", err)
		return false
	}
	if outcome != unlock.OutcomeUnlockable {
		return false
	}

	transitioned, err := s.capsuleRepo.MarkUnlocked(ctx, c.ID, now)
	if err != nil {
		log.ErrorContext(ctx, "mark capsule unlocked failed", "capsule_id", c.ID.Hex(), "err", err)
		return false
	}
	if !transitioned {
		// 他方已完成转换，通知由转换方负责
		return false
	}

	id := c.ID.Hex()
	if err = s.notifier.EmitUnlocked(ctx, c.UserID, "capsule", id, c.Title); err != nil {
		log.ErrorContext(ctx, "emit unlock notification failed", "capsule_id", id, "err", err)
	}

	if c.IsPublic {
		doc := &es.CapsuleES{
			ID:         id,
			UserID:     c.UserID,
			Title:      c.Title,
			Emoji:      c.Emoji,
			Content:    c.Content,
			IsPublic:   true,
			UnlockedAt: now,
			CreatedAt:  c.CreatedAt,
		}
		if err = s.esRepo.IndexCapsule(ctx, doc); err != nil {
			log.ErrorContext(ctx, "index unlocked capsule failed", "capsule_id", id, "err", err)
		}
	}

	return true
}

func (s *UnlockScanJob) unlockJournal(ctx context.Context, e *mng.JournalEntry, now time.Time) bool {
	outcome, err := unlock.Evaluate(e.Condition(), "", now)
	if err != nil {
		log.ErrorContext(ctx, "journal unlock condition corrupted", "entry_id", e.ID.Hex(), "err", err)
		return false
	}
	if outcome != unlock.OutcomeUnlockable {
		return false
	}

	transitioned, err := s.journalRepo.MarkUnlocked(ctx, e.ID, now)
	if err != nil {
		log.ErrorContext(ctx, "mark journal unlocked failed", "entry_id", e.ID.Hex(), "err", err)
		return false
	}
	if !transitioned {
		return false
	}

	if err = s.notifier.EmitUnlocked(ctx, e.UserID, "journal", e.ID.Hex(), e.DisplayTitle()); err != nil {
		log.ErrorContext(ctx, "emit unlock notification failed", "entry_id", e.ID.Hex(), "err", err)
	}

	return true
}
