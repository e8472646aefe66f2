package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 通知类型。通知只由服务端事件创建，客户端没有创建入口。
const (
	NotificationTypeCapsuleUnlocked = "capsule_unlocked"
	NotificationTypeUnlockReminder  = "unlock_reminder"
	NotificationTypeSystem          = "system"
)

// Notification 通知文档模型
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"`
	Type       string             `bson:"type" json:"type"`
	Title      string             `bson:"title" json:"title"`
	Message    string             `bson:"message" json:"message"`
	Data       map[string]any     `bson:"data,omitempty" json:"data,omitempty"`           // 引用载荷，如触发通知的条目 ID
	IsRead     bool               `bson:"is_read" json:"isRead"`                          // 单向 false→true
	ReadAt     *time.Time         `bson:"read_at,omitempty" json:"readAt,omitempty"`      // 转换时写入一次
	ExpiresAt  *time.Time         `bson:"expires_at,omitempty" json:"expiresAt,omitempty"` // 过期后由清理任务删除
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
