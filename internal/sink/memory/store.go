// Package memory implements an in-memory sink.Store for tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"nucascade/internal/sink"
)

type object struct {
	info sink.Info
	data []byte
}

// Store keeps objects in process memory. Intended for tests.
type Store struct {
	mu   sync.RWMutex
	objs map[string]object
}

var _ sink.Store = (*Store)(nil)

// New returns an empty in-memory sink.
func New() *Store { return &Store{objs: make(map[string]object)} }

// Driver returns the sink driver identifier.
func (s *Store) Driver() sink.Driver { return sink.DriverMemory }

// Put stores a new object; errors if the key exists.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts sink.PutOptions) (sink.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objs[key]; exists {
		return sink.Info{}, fmt.Errorf("object %s already exists", key)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return sink.Info{}, err
	}
	info := sink.Info{Key: key, Size: int64(len(b)), ContentType: opts.ContentType, Metadata: cloneMetadata(opts.Metadata), LastModified: time.Now().UTC()}
	s.objs[key] = object{info: info, data: b}
	return info, nil
}

// Get returns object metadata and a read closer over a copy of its content.
func (s *Store) Get(_ context.Context, key string) (sink.Info, io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return sink.Info{}, nil, fmt.Errorf("object %s not found", key)
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	info := obj.info
	info.Metadata = cloneMetadata(info.Metadata)
	return info, io.NopCloser(bytes.NewReader(data)), nil
}

// Head returns object metadata only.
func (s *Store) Head(_ context.Context, key string) (sink.Info, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return sink.Info{}, fmt.Errorf("object %s not found", key)
	}
	info := obj.info
	info.Metadata = cloneMetadata(info.Metadata)
	return info, nil
}

// Delete removes the object, returning true if it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objs[key]
	if ok {
		delete(s.objs, key)
	}
	return ok, nil
}

// List returns all objects matching prefix, ordered by key.
func (s *Store) List(_ context.Context, prefix string) ([]sink.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sink.Info, 0, len(s.objs))
	for k, v := range s.objs {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			info := v.info
			info.Metadata = cloneMetadata(info.Metadata)
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// PresignURL returns unsupported for the memory driver.
func (s *Store) PresignURL(_ context.Context, _ string, _ sink.SignedURLOptions) (string, error) {
	return "", sink.ErrUnsupported
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
