package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JournalEntry 手账文档模型，每用户每天至多一篇 (user_id + date 唯一)
type JournalEntry struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          uint64             `bson:"user_id" json:"userId"`
	Date            string             `bson:"date" json:"date"` // 格式 2006-01-02
	Title           string             `bson:"title,omitempty" json:"title,omitempty"`
	Emoji           string             `bson:"emoji,omitempty" json:"emoji,omitempty"`
	Content         string             `bson:"content" json:"content"`
	Media           []MediaRef         `bson:"media,omitempty" json:"media,omitempty"`
	UnlockCondition `bson:",inline"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}

// DisplayTitle 通知等场景的展示标题，未填写时退回日期
func (e *JournalEntry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Date
}
