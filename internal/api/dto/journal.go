package dto

import "time"

// CreateJournalDTO 手账 - 新增，同一用户每天一条
type CreateJournalDTO struct {
	Date    string             `json:"date" binding:"required" validate:"datetime=2006-01-02"`
	Title   string             `json:"title" validate:"omitempty,max=255"`
	Emoji   string             `json:"emoji" validate:"omitempty,max=16"`
	Content string             `json:"content" binding:"required" validate:"min=1,max=5000"`
	Media   []*MediaDTO        `json:"media" validate:"max=9"`
	Unlock  UnlockConditionDTO `json:"unlock" binding:"required"`
}

// UpdateJournalDTO 手账 - 修改，日期与解锁条件不可变
type UpdateJournalDTO struct {
	Title   *string     `json:"title,omitempty" validate:"omitempty,max=255"`
	Emoji   *string     `json:"emoji,omitempty" validate:"omitempty,max=16"`
	Content *string     `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	Media   []*MediaDTO `json:"media,omitempty" validate:"omitempty,max=9"`
}

// JournalDTO 手账展示，未解锁时内容与媒体不下发
type JournalDTO struct {
	ID             string          `json:"id"`
	UserID         uint64          `json:"user_id"`
	Date           string          `json:"date"`
	Title          string          `json:"title,omitempty"`
	Emoji          string          `json:"emoji"`
	Content        string          `json:"content,omitempty"`
	Media          []*MediaViewDTO `json:"media,omitempty"`
	UnlockMode     string          `json:"unlock_mode"`
	UnlockAt       *time.Time      `json:"unlock_at,omitempty"`
	RiddleQuestion string          `json:"riddle_question,omitempty"`
	IsUnlocked     bool            `json:"is_unlocked"`
	UnlockedAt     *time.Time      `json:"unlocked_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
