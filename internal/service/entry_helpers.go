package service

import (
	"PastPort/internal/api/dto"
	"PastPort/internal/pkg/consts"
	"PastPort/internal/pkg/minio"
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/pkg/redis"
	"PastPort/internal/pkg/unlock"
	"context"
	log "log/slog"

	"github.com/goccy/go-json"
)

// buildUnlockCondition 校验并落地创建请求中的解锁条件。
// 谜题答案只保存归一化后的哈希，明文不落库。
func buildUnlockCondition(d *dto.UnlockConditionDTO) (mng.UnlockCondition, error) {
	cond := mng.UnlockCondition{UnlockMode: d.Mode}

	switch unlock.Mode(d.Mode) {
	case unlock.ModeTime:
		if d.UnlockAt == nil {
			return cond, ErrUnlockAtRequired
		}
		cond.UnlockAt = d.UnlockAt

	case unlock.ModeRiddle:
		if d.RiddleQuestion == nil || *d.RiddleQuestion == "" ||
			d.RiddleAnswer == nil || unlock.NormalizeAnswer(*d.RiddleAnswer) == "" {
			return cond, ErrRiddleRequired
		}
		cond.RiddleQuestion = *d.RiddleQuestion
		cond.RiddleAnswerHash = unlock.HashAnswer(*d.RiddleAnswer)

	case unlock.ModeNone:

	default:
		return cond, ErrParamInvalid
	}

	return cond, nil
}

// bindMedia 校验媒体确实经过上传接口进入临时账本，并用账本里的元数据补全引用。
// 返回创建成功后应从账本移除的字段键。
func bindMedia(ctx context.Context, media []*dto.MediaDTO) ([]mng.MediaRef, []string, error) {
	if len(media) == 0 {
		return nil, nil, nil
	}

	refs := make([]mng.MediaRef, 0, len(media))
	hdelKeys := make([]string, 0, len(media)*2)

	for _, m := range media {
		val, err := redis.HGet(ctx, consts.MediaTempKey, m.ObjectKey)
		if err != nil || val == "" {
			log.WarnContext(ctx, "media resource not found in temp cache", "object_key", m.ObjectKey)
			return nil, nil, ErrFileNotExist
		}

		var meta dto.MediaTempMetadata
		if err = json.Unmarshal([]byte(val), &meta); err != nil {
			log.ErrorContext(ctx, "unmarshal media meta failed", "object_key", m.ObjectKey, "err", err)
			return nil, nil, UnExpectedError
		}

		refs = append(refs, mng.MediaRef{
			ObjectKey: m.ObjectKey,
			ThumbKey:  meta.ThumbKey,
			MimeType:  meta.MimeType,
			Width:     meta.Width,
			Height:    meta.Height,
		})

		hdelKeys = append(hdelKeys, m.ObjectKey)
		if meta.ThumbKey != "" {
			hdelKeys = append(hdelKeys, meta.ThumbKey)
		}
	}

	return refs, hdelKeys, nil
}

// releaseMediaLedger 媒体绑定成功后异步移出临时账本
func releaseMediaLedger(hdelKeys []string) {
	if len(hdelKeys) == 0 {
		return
	}
	go func(keys []string) {
		_ = redis.HDel(context.Background(), consts.MediaTempKey, keys...)
	}(hdelKeys)
}

func mediaViews(refs []mng.MediaRef) []*dto.MediaViewDTO {
	if len(refs) == 0 {
		return nil
	}
	views := make([]*dto.MediaViewDTO, 0, len(refs))
	for _, m := range refs {
		views = append(views, &dto.MediaViewDTO{
			URL:      minio.GetPublicURL(m.ObjectKey),
			ThumbURL: minio.GetPublicURL(m.ThumbKey),
			MimeType: m.MimeType,
			Width:    m.Width,
			Height:   m.Height,
		})
	}
	return views
}
