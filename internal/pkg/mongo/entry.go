package mongo

import (
	"PastPort/internal/pkg/unlock"
	"time"
)

// UnlockCondition 胶囊与手账共用的解锁条件字段，内联进各自文档
type UnlockCondition struct {
	UnlockMode       string     `bson:"unlock_mode" json:"unlockMode"`                             // time-定时, riddle-谜题, none-无锁
	UnlockAt         *time.Time `bson:"unlock_at,omitempty" json:"unlockAt,omitempty"`             // time 模式必填
	RiddleQuestion   string     `bson:"riddle_question,omitempty" json:"riddleQuestion,omitempty"`
	RiddleAnswerHash string     `bson:"riddle_answer_hash,omitempty" json:"-"`                     // 归一化答案的 SHA-256
	IsUnlocked       bool       `bson:"is_unlocked" json:"isUnlocked"`                             // 单向 false→true
	UnlockedAt       *time.Time `bson:"unlocked_at,omitempty" json:"unlockedAt,omitempty"`         // 转换时写入一次
}

// Condition 转换为求值器使用的快照
func (u UnlockCondition) Condition() unlock.Condition {
	return unlock.Condition{
		Mode:       unlock.Mode(u.UnlockMode),
		UnlockAt:   u.UnlockAt,
		AnswerHash: u.RiddleAnswerHash,
		IsUnlocked: u.IsUnlocked,
	}
}

// MediaRef 附件引用
type MediaRef struct {
	ObjectKey string `bson:"object_key" json:"objectKey"`
	ThumbKey  string `bson:"thumb_key,omitempty" json:"thumbKey,omitempty"`
	MimeType  string `bson:"mime_type" json:"mimeType"`
	Width     int    `bson:"width,omitempty" json:"width,omitempty"`
	Height    int    `bson:"height,omitempty" json:"height,omitempty"`
}
