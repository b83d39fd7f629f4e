// Package session хранит учётные данные сотрудника в хранилище устройства.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mmeshcher/santana-waiter/internal/model"
	"github.com/mmeshcher/santana-waiter/internal/storage"
)

// Namespace задаёт ключ, под которым сессия лежит в хранилище устройства.
const Namespace = "@santanapizzaria"

// Storage описывает хранилище устройства: файл или общая база.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store читает и записывает сессию под фиксированным пространством имён.
// Срок действия токена локально не отслеживается: о невалидности сообщает только ответ 401.
type Store struct {
	storage Storage
}

// NewStore создаёт хранилище сессии поверх хранилища устройства.
func NewStore(s Storage) *Store {
	return &Store{storage: s}
}

// Get возвращает сохранённую сессию. ok == false, если сессии нет или в ней нет токена.
func (s *Store) Get(ctx context.Context) (model.Credential, bool, error) {
	raw, err := s.storage.Get(ctx, Namespace)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Credential{}, false, nil
		}
		return model.Credential{}, false, fmt.Errorf("read credential: %w", err)
	}

	var cred model.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return model.Credential{}, false, fmt.Errorf("decode credential: %w", err)
	}

	return cred, cred.Valid(), nil
}

// Set сохраняет сессию.
func (s *Store) Set(ctx context.Context, cred model.Credential) error {
	if !cred.Valid() {
		return errors.New("credential without token")
	}

	raw, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	if err := s.storage.Set(ctx, Namespace, raw); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}

	return nil
}

// Clear удаляет сессию.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, Namespace); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
