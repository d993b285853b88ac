// Package settings хранит пользовательские настройки приложения в одном
// JSON-файле под фиксированным ключом userSettings в каталоге состояния.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// settingsKey — фиксированное имя файла настроек.
const settingsKey = "userSettings"

// Settings — настройки приложения. Сохраняются целиком одним блобом.
type Settings struct {
	Notifications    bool   `json:"notifications"`
	BillingReminders bool   `json:"billing_reminders"`
	Currency         string `json:"currency"`
	Theme            string `json:"theme"`
}

// Defaults возвращает настройки по умолчанию.
func Defaults() Settings {
	return Settings{
		Notifications:    true,
		BillingReminders: true,
		Currency:         "USD",
		Theme:            "dark",
	}
}

// Store сериализует настройки в файл и обратно.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New создаёт хранилище настроек в переданном каталоге.
func New(dir string) (*Store, error) {
	const op = "settings.New"
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, settingsKey)
}

// Load читает настройки с диска. Отсутствие файла или повреждённый JSON
// не ошибка: возвращаются настройки по умолчанию.
func (s *Store) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path())
	if err != nil {
		return Defaults()
	}
	var out Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return Defaults()
	}
	return out
}

// Save записывает настройки одним JSON-блобом.
func (s *Store) Save(settings Settings) error {
	const op = "settings.Store.Save"
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Reset удаляет сохранённые настройки, возвращая приложение к умолчаниям.
func (s *Store) Reset() error {
	const op = "settings.Store.Reset"
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
