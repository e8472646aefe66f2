package service

import (
	"PastPort/internal/api/dto"
	"PastPort/internal/pkg/consts"
	"PastPort/internal/pkg/kafka"
	"PastPort/internal/pkg/mail"
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MailPublisher 邮件任务发布端，*kafka.MailProducer 即实现
type MailPublisher interface {
	Publish(ctx context.Context, task *kafka.MailTask) error
}

type NotificationService interface {
	// EmitUnlocked 解锁事件通知。站内记录必写，写入失败返回错误；
	// 邮件按用户偏好投递，投递失败只记录日志。
	EmitUnlocked(ctx context.Context, ownerID uint64, entryKind, entryID, title string) error
	// EmitReminder 即将解锁提醒，带过期时间，由清理任务回收
	EmitReminder(ctx context.Context, ownerID uint64, entryKind, entryID, title string, unlockAt time.Time) error

	List(ctx context.Context, userID uint64, page *dto.PageDTO) ([]*dto.NotificationDTO, error)
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, id string) error
	MarkAllRead(ctx context.Context, userID uint64) error
	Delete(ctx context.Context, userID uint64, id string) error
	OwnerOf(ctx context.Context, id string) (uint64, error)
}

type NotificationServiceImpl struct {
	notificationRepo mng.NotificationRepo
	userRepo         repository.UserRepo
	prefRepo         repository.UserPreferenceRepo
	publisher        MailPublisher
	mailClient       mail.Client
	now              func() time.Time
}

// NewNotificationService 构造通知服务。publisher 为 nil 时邮件直接经 mailClient 投递。
func NewNotificationService(
	notificationRepo mng.NotificationRepo,
	userRepo repository.UserRepo,
	prefRepo repository.UserPreferenceRepo,
	publisher MailPublisher,
	mailClient mail.Client,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		prefRepo:         prefRepo,
		publisher:        publisher,
		mailClient:       mailClient,
		now:              time.Now,
	}
}

func (s *NotificationServiceImpl) EmitUnlocked(ctx context.Context, ownerID uint64, entryKind, entryID, title string) error {
	message := fmt.Sprintf("你的内容「%s」已经解锁，快去看看吧", title)
	return s.emit(ctx, &mng.Notification{
		ReceiverID: ownerID,
		Type:       mng.NotificationTypeCapsuleUnlocked,
		Title:      "内容已解锁",
		Message:    message,
		Data:       map[string]any{"entry_kind": entryKind, "entry_id": entryID},
	})
}

func (s *NotificationServiceImpl) EmitReminder(ctx context.Context, ownerID uint64, entryKind, entryID, title string, unlockAt time.Time) error {
	message := fmt.Sprintf("你的内容「%s」将于 %s 解锁", title, unlockAt.Local().Format("2006-01-02 15:04"))
	return s.emit(ctx, &mng.Notification{
		ReceiverID: ownerID,
		Type:       mng.NotificationTypeUnlockReminder,
		Title:      "即将解锁",
		Message:    message,
		Data:       map[string]any{"entry_kind": entryKind, "entry_id": entryID},
	})
}

// emit 先落站内记录，再按偏好尝试邮件。邮件属尽力而为，任何失败不影响返回值。
func (s *NotificationServiceImpl) emit(ctx context.Context, n *mng.Notification) error {
	now := s.now()
	expiresAt := now.Add(consts.NotificationTTLDays * 24 * time.Hour)
	n.ExpiresAt = &expiresAt
	n.CreatedAt = now

	if _, err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}

	email, ok := s.mailableAddress(ctx, n.ReceiverID)
	if !ok {
		return nil
	}

	task := &kafka.MailTask{
		To:       email,
		Subject:  "PastPort · " + n.Title,
		HTMLBody: "<p>" + n.Message + "</p>",
		TextBody: n.Message,
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, task); err != nil {
			log.ErrorContext(ctx, "publish mail task failed", "receiver", n.ReceiverID, "err", err)
		}
		return nil
	}

	if _, err := s.mailClient.Send(ctx, task.To, task.Subject, task.HTMLBody, task.TextBody); err != nil {
		log.ErrorContext(ctx, "send mail failed", "receiver", n.ReceiverID, "err", err)
	}
	return nil
}

// mailableAddress 解锁类邮件需要总开关与解锁开关同时打开，且用户有邮箱
func (s *NotificationServiceImpl) mailableAddress(ctx context.Context, userID uint64) (string, bool) {
	pref, err := s.prefRepo.GetByUserID(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "load user preference failed", "user_id", userID, "err", err)
		return "", false
	}
	if pref == nil || !pref.EmailEnabled || !pref.UnlockEmailEnabled {
		return "", false
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "load user failed", "user_id", userID, "err", err)
		return "", false
	}
	if user == nil || user.Email == nil || *user.Email == "" {
		return "", false
	}
	return *user.Email, true
}

func (s *NotificationServiceImpl) List(ctx context.Context, userID uint64, page *dto.PageDTO) ([]*dto.NotificationDTO, error) {
	page.Normalize()
	list, err := s.notificationRepo.ListByReceiver(ctx, userID, int64(page.Size), int64((page.Page-1)*page.Size))
	if err != nil {
		return nil, err
	}

	result := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		result = append(result, notificationView(n))
	}
	return result, nil
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID uint64, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotificationNotFound
	}
	err = s.notificationRepo.MarkAsRead(ctx, userID, oid, s.now())
	if errors.Is(err, mongo.ErrNoDocuments) {
		// 已读或不属于该用户，均视为无事可做
		return nil
	}
	return err
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID, s.now())
}

func (s *NotificationServiceImpl) Delete(ctx context.Context, userID uint64, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotificationNotFound
	}
	err = s.notificationRepo.Delete(ctx, userID, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotificationNotFound
	}
	return err
}

// OwnerOf 供 authz 注册表使用的属主查询
func (s *NotificationServiceImpl) OwnerOf(ctx context.Context, id string) (uint64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrNotificationNotFound
	}
	n, err := s.notificationRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotificationNotFound
		}
		return 0, err
	}
	return n.ReceiverID, nil
}

func notificationView(n *mng.Notification) *dto.NotificationDTO {
	view := &dto.NotificationDTO{
		ID:        n.ID.Hex(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		view.Data = make(map[string]string, len(n.Data))
		for k, v := range n.Data {
			if str, ok := v.(string); ok {
				view.Data[k] = str
			}
		}
	}
	return view
}
