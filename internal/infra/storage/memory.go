package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/yanqian/aerosense/internal/domain/report"
)

// ErrObjectNotFound is returned by MemoryStorage.Get for unknown keys.
var ErrObjectNotFound = errors.New("object not found")

// MemoryStorage is the fallback when R2 is not configured. Objects are lost on restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: map[string][]byte{}}
}

// Put copies data, so later mutation by the caller does not leak in. The
// ETag is the hex MD5 of the content, like single-part S3 uploads.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, mimeType string) (report.StoredObject, error) {
	sum := md5.Sum(data)
	s.mu.Lock()
	s.objects[key] = bytes.Clone(data)
	s.mu.Unlock()
	return report.StoredObject{Key: key, Size: int64(len(data)), MimeType: mimeType, ETag: hex.EncodeToString(sum[:])}, nil
}

func (s *MemoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

var _ report.ObjectStorage = (*MemoryStorage)(nil)
