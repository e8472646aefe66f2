package dto

// MediaDTO 媒体引用，附加在胶囊或日记上
type MediaDTO struct {
	ObjectKey string `json:"object_key" binding:"required" validate:"min=1,max=512"`
	ThumbKey  string `json:"thumb_key,omitempty"`
	MimeType  string `json:"mime_type" binding:"required" validate:"min=1,max=64"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// MediaViewDTO 媒体展示，包含可访问 URL
type MediaViewDTO struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url,omitempty"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// MediaUploadDTO 上传结果
type MediaUploadDTO struct {
	ObjectKey string `json:"object_key"`
	ThumbKey  string `json:"thumb_key"`
	URL       string `json:"url"`
	ThumbURL  string `json:"thumb_url"`
	MimeType  string `json:"mime_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// MediaTempMetadata 临时媒体元数据，落在 redis 账本中等待绑定
type MediaTempMetadata struct {
	MimeType  string `json:"mime_type"`
	ThumbKey  string `json:"thumb_key"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt int64  `json:"created_at"`
}
