// Package auth реализует клиентское хранилище состояния аутентификации.
//
// Store держит текущего пользователя и флаг авторизации. Ошибки сетевых
// вызовов не покидают хранилище: операции возвращают Result с сообщением.
package auth

import (
	"context"
	"sync"

	"github.com/subzero-app/subzero/internal/models"
)

// API описывает операции клиента, которые нужны хранилищу аутентификации.
type API interface {
	Register(ctx context.Context, req models.DummyRegister) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.DummyLogin) (*models.AuthResponse, error)
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.DummyProfileUpdate) (*models.User, error)
	Logout() error
}

// Result — исход операции хранилища.
type Result struct {
	Success bool
	Error   string
}

// State — снимок состояния аутентификации.
type State struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// Store — хранилище состояния аутентификации.
type Store struct {
	mu    sync.Mutex
	api   API
	state State
}

// New создаёт хранилище поверх API-клиента.
func New(api API) *Store {
	return &Store{api: api}
}

// State возвращает копию текущего состояния.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if s.state.User != nil {
		u := *s.state.User
		st.User = &u
	}
	return st
}

// IsFreeTier сообщает, действует ли для текущего пользователя лимит
// бесплатного тарифа. Неавторизованный пользователь считается бесплатным.
func (s *Store) IsFreeTier() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return true
	}
	return s.state.User.IsFree()
}

// Login выполняет вход и сохраняет пользователя в состоянии.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	s.setLoading(true)

	resp, err := s.api.Login(ctx, models.DummyLogin{Email: email, Password: password})
	if err != nil {
		return s.fail(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = resp.User
	s.state.IsAuthenticated = true
	s.state.IsLoading = false
	s.state.Error = ""
	return Result{Success: true}
}

// Register создаёт учётную запись и сразу авторизует пользователя.
func (s *Store) Register(ctx context.Context, email, password, name string) Result {
	s.setLoading(true)

	resp, err := s.api.Register(ctx, models.DummyRegister{Email: email, Password: password, Name: name})
	if err != nil {
		return s.fail(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = resp.User
	s.state.IsAuthenticated = true
	s.state.IsLoading = false
	s.state.Error = ""
	return Result{Success: true}
}

// Refresh перезагружает профиль текущего пользователя.
func (s *Store) Refresh(ctx context.Context) Result {
	user, err := s.api.GetProfile(ctx)
	if err != nil {
		return s.fail(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = user
	s.state.IsAuthenticated = true
	s.state.Error = ""
	return Result{Success: true}
}

// UpdateProfile изменяет имя или тариф и применяет ответ сервера.
func (s *Store) UpdateProfile(ctx context.Context, name, tier string) Result {
	user, err := s.api.UpdateProfile(ctx, models.DummyProfileUpdate{Name: name, SubscriptionTier: tier})
	if err != nil {
		return s.fail(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = user
	s.state.Error = ""
	return Result{Success: true}
}

// Logout сбрасывает состояние и удаляет сохранённый токен.
func (s *Store) Logout() Result {
	if err := s.api.Logout(); err != nil {
		return s.fail(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	return Result{Success: true}
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = v
}

func (s *Store) fail(msg string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = false
	s.state.Error = msg
	return Result{Error: msg}
}
