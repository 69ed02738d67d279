package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// ValidatePassword 至少 8 位，包含一个大写字母和一个非字母数字字符
func ValidatePassword(password string) error {
	var problems []string
	if len(password) < 8 {
		problems = append(problems, "Password must be at least 8 characters long.")
	}
	hasUpper, hasSpecial := false, false
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
		default:
			hasSpecial = true
		}
	}
	if !hasUpper {
		problems = append(problems, "Password must contain at least one uppercase letter.")
	}
	if !hasSpecial {
		problems = append(problems, "Password must contain at least one special character.")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", util.ErrInvalidInput, strings.Join(problems, " "))
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, user *model.User) error {
	if err := ValidatePassword(user.Password); err != nil {
		return err
	}

	_, err := s.UserRepo.FindByUsername(ctx, user.Username)
	if err == nil {
		return util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	return token, user, err
}

func (s *AuthService) IssueToken(user *model.User) (string, error) {
	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
