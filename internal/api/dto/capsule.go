package dto

import "time"

// UnlockConditionDTO 解锁条件 - 创建时声明
type UnlockConditionDTO struct {
	Mode           string     `json:"mode" binding:"required" validate:"oneof=time riddle none"`
	UnlockAt       *time.Time `json:"unlock_at,omitempty"`
	RiddleQuestion *string    `json:"riddle_question,omitempty" validate:"omitempty,max=255"`
	RiddleAnswer   *string    `json:"riddle_answer,omitempty" validate:"omitempty,min=1,max=255"`
}

// CreateCapsuleDTO 胶囊 - 新增
type CreateCapsuleDTO struct {
	Title    string             `json:"title" binding:"required" validate:"min=1,max=255"`
	Emoji    string             `json:"emoji" validate:"omitempty,max=16"`
	Content  string             `json:"content" binding:"required" validate:"min=1,max=5000"`
	Media    []*MediaDTO        `json:"media" validate:"max=9"`
	IsPublic bool               `json:"is_public"`
	Unlock   UnlockConditionDTO `json:"unlock" binding:"required"`
}

// UpdateCapsuleDTO 胶囊 - 修改，解锁条件创建后不可变
type UpdateCapsuleDTO struct {
	Title    *string     `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Emoji    *string     `json:"emoji,omitempty" validate:"omitempty,max=16"`
	Content  *string     `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	Media    []*MediaDTO `json:"media,omitempty" validate:"omitempty,max=9"`
	IsPublic *bool       `json:"is_public,omitempty"`
}

// UnlockAttemptDTO 手动解锁请求
type UnlockAttemptDTO struct {
	Answer string `json:"answer"`
}

// UnlockResultDTO 手动解锁结果
type UnlockResultDTO struct {
	Outcome string      `json:"outcome"`
	Capsule *CapsuleDTO `json:"capsule,omitempty"`
	Journal *JournalDTO `json:"journal,omitempty"`
}

// CapsuleDTO 胶囊展示，未解锁时内容与媒体不下发
type CapsuleDTO struct {
	ID             string          `json:"id"`
	UserID         uint64          `json:"user_id"`
	Title          string          `json:"title"`
	Emoji          string          `json:"emoji"`
	Content        string          `json:"content,omitempty"`
	Media          []*MediaViewDTO `json:"media,omitempty"`
	IsPublic       bool            `json:"is_public"`
	UnlockMode     string          `json:"unlock_mode"`
	UnlockAt       *time.Time      `json:"unlock_at,omitempty"`
	RiddleQuestion string          `json:"riddle_question,omitempty"`
	IsUnlocked     bool            `json:"is_unlocked"`
	UnlockedAt     *time.Time      `json:"unlocked_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
