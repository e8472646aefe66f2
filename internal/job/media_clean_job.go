package job

import (
	"PastPort/internal/api/dto"
	"PastPort/internal/pkg/consts"
	"PastPort/internal/pkg/logger"
	"PastPort/internal/pkg/minio"
	"PastPort/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// MediaCleanJob 每天清理上传后 24 小时内未绑定到任何内容的临时媒体
type MediaCleanJob struct {
	locker Locker
	now    func() time.Time
}

func NewMediaCleanJob(locker Locker) *MediaCleanJob {
	return &MediaCleanJob{
		locker: locker,
		now:    time.Now,
	}
}

func (s *MediaCleanJob) Run() {
	traceID := "job-media-clean-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	release, ok := s.locker.Acquire(ctx, consts.MediaCleanJobLock, 10*time.Minute)
	if !ok {
		return
	}
	defer release()

	allMedia, err := redis.HGetAll(ctx, consts.MediaTempKey)
	if err != nil {
		log.ErrorContext(ctx, "get media temp hash failed", "err", err)
		return
	}

	now := s.now().Unix()
	expiration := int64(24 * 60 * 60)
	count := 0

	for fileKey, val := range allMedia {
		var meta dto.MediaTempMetadata
		if err := json.Unmarshal([]byte(val), &meta); err != nil {
			log.WarnContext(ctx, "invalid media meta format", "file_key", fileKey)
			continue
		}

		if now-meta.CreatedAt <= expiration {
			continue
		}

		if err = minio.DeleteFile(ctx, fileKey); err != nil {
			log.ErrorContext(ctx, "delete expired file from minio failed", "file_key", fileKey, "err", err)
			continue
		}

		if err = redis.HDel(ctx, consts.MediaTempKey, fileKey); err != nil {
			log.ErrorContext(ctx, "remove media token from redis failed", "file_key", fileKey, "err", err)
		}

		count++
	}

	if count > 0 {
		log.InfoContext(ctx, "media cleanup finished", "cleaned_count", count)
	}
}
