// Package storage содержит локальное хранилище устройства в виде JSON-файла.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// ErrNotFound возвращается, если ключ отсутствует в хранилище.
var ErrNotFound = errors.New("key not found")

// ErrSealed возвращается, если запечатанное значение не удалось открыть ключом хранилища.
var ErrSealed = errors.New("stored value cannot be opened with the configured key")

// File хранит пары ключ-значение в одном JSON-файле.
// При заданном ключе значения запечатываются secretbox.
type File struct {
	path string
	key  *[keySize]byte
	mu   sync.Mutex
}

// ParseKey разбирает ключ хранилища в hex-представлении (64 символа).
func ParseKey(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode storage key: %w", err)
	}
	if len(b) != keySize {
		return nil, fmt.Errorf("storage key must be %d bytes (hex %d chars)", keySize, keySize*2)
	}
	return b, nil
}

// NewFile создаёт файловое хранилище. Пустой key отключает запечатывание.
func NewFile(path string, key []byte) (*File, error) {
	if path == "" {
		return nil, errors.New("storage path is empty")
	}

	f := &File{path: path}
	if len(key) > 0 {
		if len(key) != keySize {
			return nil, fmt.Errorf("storage key must be %d bytes", keySize)
		}
		f.key = new([keySize]byte)
		copy(f.key[:], key)
	}

	return f, nil
}

// Get возвращает значение по ключу.
func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return nil, err
	}

	raw, ok := entries[key]
	if !ok {
		return nil, ErrNotFound
	}

	return f.open(raw)
}

// Set сохраняет значение по ключу.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}

	sealed, err := f.seal(value)
	if err != nil {
		return err
	}
	entries[key] = sealed

	return f.save(entries)
}

// Delete удаляет ключ. Отсутствие ключа ошибкой не считается.
func (f *File) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}

	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)

	return f.save(entries)
}

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode storage file: %w", err)
	}

	return entries, nil
}

func (f *File) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".storage-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}

	return nil
}

func (f *File) seal(value []byte) (string, error) {
	if f.key == nil {
		return string(value), nil
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	box := secretbox.Seal(nonce[:], value, &nonce, f.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (f *File) open(raw string) ([]byte, error) {
	if f.key == nil {
		return []byte(raw), nil
	}

	box, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return nil, ErrSealed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])

	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, f.key)
	if !ok {
		return nil, ErrSealed
	}

	return plain, nil
}
