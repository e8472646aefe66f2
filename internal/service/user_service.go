package service

import (
	"PastPort/internal/api/dto"
	"PastPort/internal/model"
	"PastPort/internal/pkg/minio"
	"PastPort/internal/pkg/redis"
	"PastPort/internal/pkg/security"
	"PastPort/internal/repository"
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, d *dto.RegisterDTO) error
	Login(ctx context.Context, d *dto.CredentialDTO) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, d *dto.UserDTO) error
	GetPreferences(ctx context.Context, id uint64) (*dto.PreferenceDTO, error)
	UpdatePreferences(ctx context.Context, id uint64, d *dto.PreferenceDTO) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
	prefRepo repository.UserPreferenceRepo
}

func NewUserService(userRepo repository.UserRepo, prefRepo repository.UserPreferenceRepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		prefRepo: prefRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, d *dto.RegisterDTO) error {
	existing, err := s.userRepo.GetByUsername(ctx, d.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserUsernameExist
	}

	existing, err = s.userRepo.GetByEmail(ctx, d.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserEmailExist
	}

	passwordHash, err := security.HashPassword(d.Password)
	if err != nil {
		return err
	}

	nickname := d.Nickname
	if nickname == "" {
		nickname = d.Username
	}

	user := &model.User{
		Username: &d.Username,
		Email:    &d.Email,
		Password: &passwordHash,
		Nickname: nickname,
	}
	pref := &model.UserPreference{
		EmailEnabled:       true,
		UnlockEmailEnabled: true,
	}

	// 预检查后仍可能与并发注册撞唯一索引
	if err = s.userRepo.CreateUser(ctx, user, pref); err != nil {
		if isDuplicateError(err) {
			return ErrUserUsernameExist
		}
		return err
	}
	return nil
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}

func (s *UserServiceImpl) Login(ctx context.Context, d *dto.CredentialDTO) (string, error) {
	var user *model.User
	var err error

	switch {
	case d.Username != nil:
		user, err = s.userRepo.GetByUsername(ctx, *d.Username)
	case d.Email != nil:
		user, err = s.userRepo.GetByEmail(ctx, *d.Email)
	default:
		return "", ErrMissingLoginCredentials
	}
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	if user.Password == nil {
		return "", ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(d.Password, *user.Password); err != nil {
		return "", ErrPasswordIncorrect
	}

	return security.GenerateToken(user.ID)
}

// Logout 将令牌签名拉黑至其自然过期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, security.JWTExpirationTime)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	userDTO := &dto.UserDTO{}
	if err = copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	userDTO.UserID = &user.ID
	if user.AvatarURL != nil {
		url := minio.GetPublicURL(*user.AvatarURL)
		userDTO.AvatarURL = &url
	}
	return userDTO, nil
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, d *dto.UserDTO) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if d.Nickname != nil {
		user.Nickname = *d.Nickname
	}
	if d.AvatarURL != nil {
		user.AvatarURL = d.AvatarURL
	}

	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) GetPreferences(ctx context.Context, id uint64) (*dto.PreferenceDTO, error) {
	pref, err := s.prefRepo.GetByUserID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, ErrUserNotFound
	}

	return &dto.PreferenceDTO{
		EmailEnabled:       &pref.EmailEnabled,
		UnlockEmailEnabled: &pref.UnlockEmailEnabled,
	}, nil
}

func (s *UserServiceImpl) UpdatePreferences(ctx context.Context, id uint64, d *dto.PreferenceDTO) error {
	pref, err := s.prefRepo.GetByUserID(ctx, id)
	if err != nil {
		return err
	}
	if pref == nil {
		return ErrUserNotFound
	}

	if d.EmailEnabled != nil {
		pref.EmailEnabled = *d.EmailEnabled
	}
	if d.UnlockEmailEnabled != nil {
		pref.UnlockEmailEnabled = *d.UnlockEmailEnabled
	}

	return s.prefRepo.Save(ctx, pref)
}
