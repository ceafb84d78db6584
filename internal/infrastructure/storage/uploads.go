package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadStore хранит загруженные файлы во временной папке на время запроса.
type UploadStore struct {
	dir      string
	maxBytes int64
}

// NewUploadStore создаёт папку при необходимости. maxBytes <= 0 снимает лимит.
func NewUploadStore(dir string, maxBytes int64) (*UploadStore, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: dir, maxBytes: maxBytes}, nil
}

// ErrTooLarge возвращается, если файл больше лимита.
var ErrTooLarge = errors.New("upload exceeds size limit")

// StagedFile загруженный файл во временной папке.
type StagedFile struct {
	Path string
	Size int64
}

// Stage копирует src в файл с уникальным именем. Удалить его обязан вызывающий.
func (s *UploadStore) Stage(src io.Reader, filename string) (*StagedFile, error) {
	name := "temp_" + uuid.NewString() + safeExt(filename)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	reader := src
	if s.maxBytes > 0 {
		reader = io.LimitReader(src, s.maxBytes+1)
	}
	n, copyErr := io.Copy(f, reader)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", copyErr)
	case closeErr != nil:
		os.Remove(path)
		return nil, fmt.Errorf("close staged file: %w", closeErr)
	case s.maxBytes > 0 && n > s.maxBytes:
		os.Remove(path)
		return nil, ErrTooLarge
	}

	return &StagedFile{Path: path, Size: n}, nil
}

// ReadAll читает содержимое файла.
func (f *StagedFile) ReadAll() ([]byte, error) {
	return os.ReadFile(f.Path)
}

// Remove удаляет файл. Повторное удаление не ошибка.
func (f *StagedFile) Remove() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
