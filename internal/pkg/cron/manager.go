package cron

import (
	"PastPort/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine               *cron.Cron
	unlockScanJob        *job.UnlockScanJob
	reminderJob          *job.ReminderJob
	notificationCleanJob *job.NotificationCleanJob
	mediaCleanJob        *job.MediaCleanJob
}

func NewCronManager(
	unlockScanJob *job.UnlockScanJob,
	reminderJob *job.ReminderJob,
	notificationCleanJob *job.NotificationCleanJob,
	mediaCleanJob *job.MediaCleanJob,
) *Manager {
	return &Manager{
		engine:               cron.New(),
		unlockScanJob:        unlockScanJob,
		reminderJob:          reminderJob,
		notificationCleanJob: notificationCleanJob,
		mediaCleanJob:        mediaCleanJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@hourly", s.unlockScanJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.reminderJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.notificationCleanJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.mediaCleanJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
