package model

import (
	"time"
)

// UserPreference 通知偏好。解锁类邮件只有在两个开关同时打开时才会发送。
type UserPreference struct {
	ID                 uint64 `gorm:"primaryKey"`
	UserID             uint64 `gorm:"not null;uniqueIndex:idx_user_id"`
	EmailEnabled       bool   `gorm:"type:tinyint(1);not null;default:1"` // 邮件总开关
	UnlockEmailEnabled bool   `gorm:"type:tinyint(1);not null;default:1"` // 解锁/提醒类邮件开关
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (UserPreference) TableName() string {
	return "user_preferences"
}
