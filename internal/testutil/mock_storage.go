// Package testutil provides test doubles shared across packages.
package testutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"
)

// MockStore is an in-memory storage.Store that still writes file bytes to a
// temp directory, so extraction paths behave like production.
type MockStore struct {
	mu    sync.Mutex
	dir   string
	files map[string]*models.FileInfo

	FailSave bool // force Save/SaveBytes errors
}

// NewMockStore creates a MockStore rooted at dir (usually t.TempDir()).
func NewMockStore(dir string) *MockStore {
	return &MockStore{
		dir:   dir,
		files: make(map[string]*models.FileInfo),
	}
}

func (s *MockStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return s.SaveBytes(name, data)
}

func (s *MockStore) SaveBytes(name string, data []byte) (*models.FileInfo, error) {
	if s.FailSave {
		return nil, fmt.Errorf("mock save failure")
	}

	id := uuid.New().String()
	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0644); err != nil {
		return nil, err
	}

	info := &models.FileInfo{
		ID:         id,
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Status:     "uploaded",
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = info
	return info, nil
}

func (s *MockStore) Get(id string) (*models.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("report not found: %s", id)
	}
	return info, nil
}

func (s *MockStore) List(limit int) ([]*models.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*models.FileInfo, 0, len(s.files))
	for _, info := range s.files {
		list = append(list, info)
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *MockStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("report not found: %s", id)
	}
	delete(s.files, id)
	return nil
}

func (s *MockStore) GetFilePath(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return "", fmt.Errorf("report not found: %s", id)
	}
	return filepath.Join(s.dir, id), nil
}

func (s *MockStore) SetStatus(id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.files[id]
	if !ok {
		return fmt.Errorf("report not found: %s", id)
	}
	info.Status = status
	return nil
}
