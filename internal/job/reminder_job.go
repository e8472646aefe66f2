package job

import (
	"PastPort/internal/pkg/consts"
	"PastPort/internal/pkg/logger"
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// ReminderJob 每天扫描次日将要解锁的定时内容并发出提醒。
// 不做去重账本，窗口口径为 [下一个本地零点, +24h)。
type ReminderJob struct {
	capsuleRepo mng.CapsuleRepo
	journalRepo mng.JournalRepo
	notifier    service.NotificationService
	locker      Locker
	now         func() time.Time
}

func NewReminderJob(
	capsuleRepo mng.CapsuleRepo,
	journalRepo mng.JournalRepo,
	notifier service.NotificationService,
	locker Locker,
) *ReminderJob {
	return &ReminderJob{
		capsuleRepo: capsuleRepo,
		journalRepo: journalRepo,
		notifier:    notifier,
		locker:      locker,
		now:         time.Now,
	}
}

func (s *ReminderJob) Run() {
	traceID := "job-reminder-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	release, ok := s.locker.Acquire(ctx, consts.ReminderJobLock, 10*time.Minute)
	if !ok {
		return
	}
	defer release()

	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	to := from.Add(consts.ReminderWindowHours * time.Hour)
	reminded := 0

	capsules, err := s.capsuleRepo.FindUpcoming(ctx, from, to)
	if err != nil {
		log.ErrorContext(ctx, "query upcoming capsules failed", "err", err)
	} else {
		for _, c := range capsules {
			if c.UnlockAt == nil {
				continue
			}
			if err = s.notifier.EmitReminder(ctx, c.UserID, "capsule", c.ID.Hex(), c.Title, *c.UnlockAt); err != nil {
				log.ErrorContext(ctx, "emit reminder failed", "capsule_id", c.ID.Hex(), "err", err)
				continue
			}
			reminded++
		}
	}

	entries, err := s.journalRepo.FindUpcoming(ctx, from, to)
	if err != nil {
		log.ErrorContext(ctx, "query upcoming journal entries failed", "err", err)
	} else {
		for _, e := range entries {
			if e.UnlockAt == nil {
				continue
			}
			if err = s.notifier.EmitReminder(ctx, e.UserID, "journal", e.ID.Hex(), e.DisplayTitle(), *e.UnlockAt); err != nil {
				log.ErrorContext(ctx, "emit reminder failed", "entry_id", e.ID.Hex(), "err", err)
				continue
			}
			reminded++
		}
	}

	if reminded > 0 {
		log.InfoContext(ctx, "reminder scan finished", "reminded_count", reminded)
	}
}
