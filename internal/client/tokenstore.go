package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// tokenFileName — фиксированное имя файла с токеном в каталоге состояния.
const tokenFileName = "subzero_token"

// TokenStore сохраняет токен доступа между запусками приложения.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// FileTokenStore хранит токен в файле внутри каталога состояния.
type FileTokenStore struct {
	dir string
}

// NewFileTokenStore создаёт хранилище токена в переданном каталоге,
// создавая каталог при необходимости.
func NewFileTokenStore(dir string) (*FileTokenStore, error) {
	const op = "client.NewFileTokenStore"
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &FileTokenStore{dir: dir}, nil
}

func (s *FileTokenStore) path() string {
	return filepath.Join(s.dir, tokenFileName)
}

// Save записывает токен в файл, доступный только владельцу.
func (s *FileTokenStore) Save(token string) error {
	const op = "client.FileTokenStore.Save"
	if err := os.WriteFile(s.path(), []byte(token), 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Load возвращает сохранённый токен. Отсутствие файла — не ошибка,
// возвращается пустая строка.
func (s *FileTokenStore) Load() (string, error) {
	const op = "client.FileTokenStore.Load"
	data, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(data), nil
}

// Clear удаляет файл токена. Отсутствие файла — не ошибка.
func (s *FileTokenStore) Clear() error {
	const op = "client.FileTokenStore.Clear"
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
