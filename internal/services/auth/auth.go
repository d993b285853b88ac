// Package services содержит логику бизнес-уровня для работы
// с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"

	"github.com/subzero-app/subzero/internal/lib/jwt"
	"github.com/subzero-app/subzero/internal/lib/password"
	"github.com/subzero-app/subzero/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateUserProfile обновляет имя и тариф пользователя.
	UpdateUserProfile(ctx context.Context, email string, upd models.DummyProfileUpdate) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и профиль пользователя.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и бесплатным
// тарифом по умолчанию, затем сразу выдаёт токен доступа.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (*models.AuthResponse, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Email:            req.Email,
		Name:             req.Name,
		PasswordHash:     hashed,
		SubscriptionTier: models.TierFree, // дефолтный тариф при регистрации
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.UID = uid

	token, err := s.jwtMaker.GenerateToken(user.Email, user.SubscriptionTier, uid)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{AccessToken: token, User: &user}, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, req models.DummyLogin) (*models.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return nil, errors.New("invalid credentials")
	}
	token, err := s.jwtMaker.GenerateToken(user.Email, user.SubscriptionTier, user.UID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{AccessToken: token, User: user}, nil
}

// Profile возвращает профиль пользователя по email.
func (s *AuthService) Profile(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetUserByEmail(ctx, email)
}

// UpdateProfile изменяет имя или тарифный план пользователя.
func (s *AuthService) UpdateProfile(ctx context.Context, email string, upd models.DummyProfileUpdate) (*models.User, error) {
	return s.users.UpdateUserProfile(ctx, email, upd)
}
