package unlock_test

import (
	"testing"
	"time"

	"PastPort/internal/pkg/unlock"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestEvaluateTimeMode(t *testing.T) {
	assert := assert.New(t)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		unlockAt time.Time
		want     unlock.Outcome
	}{
		{"已过期一天", now.Add(-24 * time.Hour), unlock.OutcomeUnlockable},
		{"恰好等于解锁时间", now, unlock.OutcomeUnlockable},
		{"还差一秒", now.Add(time.Second), unlock.OutcomeNotYetUnlockable},
		{"还差一年", now.Add(365 * 24 * time.Hour), unlock.OutcomeNotYetUnlockable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := unlock.Condition{
				Mode:     unlock.ModeTime,
				UnlockAt: timePtr(tt.unlockAt),
			}
			outcome, err := unlock.Evaluate(cond, "", now)
			assert.Nil(err)
			assert.Equal(tt.want, outcome)
		})
	}
}

func TestEvaluateTimeModeIgnoresAnswer(t *testing.T) {
	assert := assert.New(t)

	now := time.Now()
	cond := unlock.Condition{
		Mode:     unlock.ModeTime,
		UnlockAt: timePtr(now.Add(time.Hour)),
	}

	// time 模式不接受答案抢跑
	outcome, err := unlock.Evaluate(cond, "anything", now)
	assert.Nil(err)
	assert.Equal(unlock.OutcomeNotYetUnlockable, outcome)
}

func TestEvaluateRiddleMode(t *testing.T) {
	assert := assert.New(t)

	now := time.Now()
	cond := unlock.Condition{
		Mode:       unlock.ModeRiddle,
		AnswerHash: unlock.HashAnswer("needle"),
	}

	// 未提交答案
	outcome, err := unlock.Evaluate(cond, "", now)
	assert.Nil(err)
	assert.Equal(unlock.OutcomeAnswerRequired, outcome)

	// 错误答案
	outcome, err = unlock.Evaluate(cond, "wrong", now)
	assert.Nil(err)
	assert.Equal(unlock.OutcomeIncorrectAnswer, outcome)

	// 大小写和首尾空白不敏感
	outcome, err = unlock.Evaluate(cond, "Needle ", now)
	assert.Nil(err)
	assert.Equal(unlock.OutcomeUnlockable, outcome)
}

func TestEvaluateRiddleModeNeverTimeUnlocks(t *testing.T) {
	assert := assert.New(t)

	// 即使带了一个早已过去的 unlock_at，riddle 模式也必须答对才解锁
	past := time.Now().Add(-365 * 24 * time.Hour)
	cond := unlock.Condition{
		Mode:       unlock.ModeRiddle,
		UnlockAt:   timePtr(past),
		AnswerHash: unlock.HashAnswer("needle"),
	}

	outcome, err := unlock.Evaluate(cond, "", time.Now())
	assert.Nil(err)
	assert.Equal(unlock.OutcomeAnswerRequired, outcome)
}

func TestEvaluateNoneMode(t *testing.T) {
	assert := assert.New(t)

	outcome, err := unlock.Evaluate(unlock.Condition{Mode: unlock.ModeNone}, "", time.Now())
	assert.Nil(err)
	assert.Equal(unlock.OutcomeUnlockable, outcome)
}

func TestEvaluateAlreadyUnlocked(t *testing.T) {
	assert := assert.New(t)

	// 已解锁是幂等空操作，不依赖模式字段是否完整
	cond := unlock.Condition{
		Mode:       unlock.ModeRiddle,
		IsUnlocked: true,
	}
	outcome, err := unlock.Evaluate(cond, "", time.Now())
	assert.Nil(err)
	assert.Equal(unlock.OutcomeAlreadyUnlocked, outcome)
}

func TestEvaluateConfigurationError(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name string
		cond unlock.Condition
	}{
		{"time 模式缺 unlock_at", unlock.Condition{Mode: unlock.ModeTime}},
		{"riddle 模式缺答案哈希", unlock.Condition{Mode: unlock.ModeRiddle}},
		{"未知模式", unlock.Condition{Mode: "weekly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := unlock.Evaluate(tt.cond, "", time.Now())
			assert.NotNil(err)
			var confErr *unlock.ConfigurationError
			assert.ErrorAs(err, &confErr)
		})
	}
}

func TestHashAnswerNormalization(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(unlock.HashAnswer("needle"), unlock.HashAnswer("  NEEDLE  "))
	assert.NotEqual(unlock.HashAnswer("needle"), unlock.HashAnswer("needles"))
	assert.Equal("needle", unlock.NormalizeAnswer(" Needle "))
}
