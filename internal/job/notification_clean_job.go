package job

import (
	"PastPort/internal/pkg/consts"
	"PastPort/internal/pkg/logger"
	mng "PastPort/internal/pkg/mongo"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// NotificationCleanJob 每天删除已过期的通知
type NotificationCleanJob struct {
	notificationRepo mng.NotificationRepo
	locker           Locker
	now              func() time.Time
}

func NewNotificationCleanJob(notificationRepo mng.NotificationRepo, locker Locker) *NotificationCleanJob {
	return &NotificationCleanJob{
		notificationRepo: notificationRepo,
		locker:           locker,
		now:              time.Now,
	}
}

func (s *NotificationCleanJob) Run() {
	traceID := "job-notification-clean-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	release, ok := s.locker.Acquire(ctx, consts.NotificationCleanJobLock, 10*time.Minute)
	if !ok {
		return
	}
	defer release()

	count, err := s.notificationRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		log.ErrorContext(ctx, "delete expired notifications failed", "err", err)
		return
	}

	if count > 0 {
		log.InfoContext(ctx, "notification cleanup finished", "deleted_count", count)
	}
}
