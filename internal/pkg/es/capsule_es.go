package es

import "time"

// CapsuleES 写入 ES 的胶囊文档，只索引已解锁的公开胶囊
type CapsuleES struct {
	ID         string    `json:"id"`
	UserID     uint64    `json:"user_id"`
	Title      string    `json:"title"`
	Emoji      string    `json:"emoji"`
	Content    string    `json:"content"`
	IsPublic   bool      `json:"is_public"`
	UnlockedAt time.Time `json:"unlocked_at"`
	CreatedAt  time.Time `json:"created_at"`
}
