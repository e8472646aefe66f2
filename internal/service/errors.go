package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserExist               = errors.New("用户已存在")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrUserEmailExist          = errors.New("邮箱已注册")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrCapsuleNotFound         = errors.New("胶囊不存在")
	ErrJournalNotFound         = errors.New("手账不存在")
	ErrJournalDateExist        = errors.New("当天已有手账")
	ErrNotificationNotFound    = errors.New("通知不存在")
	ErrEntryLocked             = errors.New("内容尚未解锁")
	ErrUnlockAtRequired        = errors.New("定时解锁必须指定解锁时间")
	ErrRiddleRequired          = errors.New("谜题解锁必须提供问题和答案")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrFileNotExist            = errors.New("文件不存在或已过期")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserExist:               BadRequest,
	ErrUserUsernameExist:       BadRequest,
	ErrUserEmailExist:          BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrCapsuleNotFound:         NotFound,
	ErrJournalNotFound:         NotFound,
	ErrJournalDateExist:        BadRequest,
	ErrNotificationNotFound:    NotFound,
	ErrEntryLocked:             Forbidden,
	ErrUnlockAtRequired:        BadRequest,
	ErrRiddleRequired:          BadRequest,
	ErrFileNotSupported:        BadRequest,
	ErrFileNotExist:            BadRequest,
	UnauthorizedError:          Forbidden,
	UnExpectedError:            InternalServerError,
}
