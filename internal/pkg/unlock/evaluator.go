package unlock

import (
	"time"
)

// Mode 解锁方式
type Mode string

const (
	ModeTime   Mode = "time"
	ModeRiddle Mode = "riddle"
	ModeNone   Mode = "none"
)

// Outcome 评估结果
type Outcome string

const (
	OutcomeUnlockable       Outcome = "unlockable"
	OutcomeAlreadyUnlocked  Outcome = "already_unlocked"
	OutcomeNotYetUnlockable Outcome = "not_yet_unlockable"
	OutcomeAnswerRequired   Outcome = "answer_required"
	OutcomeIncorrectAnswer  Outcome = "incorrect_answer"
)

// Condition 一条内容的解锁条件与当前状态的快照
type Condition struct {
	Mode       Mode
	UnlockAt   *time.Time
	AnswerHash string
	IsUnlocked bool
}

// ConfigurationError 解锁条件数据与声明的模式不一致。
// 属于服务端数据完整性故障，不是用户输入错误。
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "解锁条件数据异常: " + e.Reason
}

// Evaluate 纯函数：判断给定条件在 now 时刻是否可以解锁。
// submittedAnswer 为空串代表未提交答案。不做任何持久化，
// 写回 IsUnlocked/UnlockedAt 是调用方的职责。
func Evaluate(c Condition, submittedAnswer string, now time.Time) (Outcome, error) {
	if c.IsUnlocked {
		return OutcomeAlreadyUnlocked, nil
	}

	switch c.Mode {
	case ModeTime:
		if c.UnlockAt == nil {
			return "", &ConfigurationError{Reason: "time 模式缺少 unlock_at"}
		}
		// 边界取闭区间：now == unlock_at 即可解锁
		if !now.Before(*c.UnlockAt) {
			return OutcomeUnlockable, nil
		}
		return OutcomeNotYetUnlockable, nil

	case ModeRiddle:
		if c.AnswerHash == "" {
			return "", &ConfigurationError{Reason: "riddle 模式缺少答案哈希"}
		}
		if submittedAnswer == "" {
			return OutcomeAnswerRequired, nil
		}
		if HashAnswer(submittedAnswer) == c.AnswerHash {
			return OutcomeUnlockable, nil
		}
		return OutcomeIncorrectAnswer, nil

	case ModeNone:
		return OutcomeUnlockable, nil

	default:
		return "", &ConfigurationError{Reason: "未知的解锁模式 " + string(c.Mode)}
	}
}
