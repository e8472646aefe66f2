package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Capsule 时间胶囊文档模型。
// Title/Emoji/CreatedAt 为元数据，对所有人始终可见；
// Content/Media 在 IsUnlocked 为 true 之前不对外暴露。
type Capsule struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          uint64             `bson:"user_id" json:"userId"`
	Title           string             `bson:"title" json:"title"`
	Emoji           string             `bson:"emoji,omitempty" json:"emoji,omitempty"`
	Content         string             `bson:"content" json:"content"`
	Media           []MediaRef         `bson:"media,omitempty" json:"media,omitempty"`
	IsPublic        bool               `bson:"is_public" json:"isPublic"` // 解锁后是否进入抽选流
	UnlockCondition `bson:",inline"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}
