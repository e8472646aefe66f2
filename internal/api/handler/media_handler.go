package handler

import (
	"PastPort/internal/api/dto"
	"PastPort/internal/pkg/consts"
	"PastPort/internal/pkg/minio"
	"PastPort/internal/pkg/redis"
	"PastPort/internal/pkg/response"
	"PastPort/internal/pkg/util"
	"PastPort/internal/service"
	"io"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type MediaHandler struct{}

func NewMediaHandler() *MediaHandler {
	return &MediaHandler{}
}

// Upload 只接受图片。原图与缩略图都先进入临时账本，
// 绑定到胶囊或手账前由清理任务兜底回收。
func (s *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	meta, err := util.ProcessImage(reader)
	if err != nil {
		log.WarnContext(c.Request.Context(), "decode image failed", "filename", file.Filename, "err", err)
		response.Error(c, service.ErrFileNotSupported)
		return
	}
	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}

	base := time.Now().Format("2006/01/02/") + uuid.NewString()
	objectName := base + path.Ext(file.Filename)
	thumbName := base + "_thumb.jpg"

	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	thumbKey, err := minio.UploadFile(c.Request.Context(), thumbName, meta.Thumb, int64(meta.Thumb.Len()), "image/jpeg")
	if err != nil {
		log.ErrorContext(c.Request.Context(), "MinIO thumbnail upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	now := time.Now().Unix()
	fileMeta := dto.MediaTempMetadata{
		MimeType:  contentType,
		ThumbKey:  thumbKey,
		Width:     meta.Width,
		Height:    meta.Height,
		CreatedAt: now,
	}
	thumbMeta := dto.MediaTempMetadata{
		MimeType:  "image/jpeg",
		Width:     meta.ThumbWidth,
		Height:    meta.ThumbHeight,
		CreatedAt: now,
	}

	fileMetaBytes, _ := json.Marshal(fileMeta)
	thumbMetaBytes, _ := json.Marshal(thumbMeta)
	_ = redis.HSet(c.Request.Context(), consts.MediaTempKey, fileKey, string(fileMetaBytes))
	_ = redis.HSet(c.Request.Context(), consts.MediaTempKey, thumbKey, string(thumbMetaBytes))

	response.Success(c, dto.MediaUploadDTO{
		ObjectKey: fileKey,
		ThumbKey:  thumbKey,
		URL:       minio.GetPublicURL(fileKey),
		ThumbURL:  minio.GetPublicURL(thumbKey),
		MimeType:  contentType,
		Width:     meta.Width,
		Height:    meta.Height,
	})
}
