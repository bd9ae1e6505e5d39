/*
Copyright 2024 Quill Press Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package quill

import (
	"context"
	"fmt"
	"sync"

	"github.com/quillpress/quill/source"
	"github.com/quillpress/quill/store"
)

// MockFileStore is an in-memory FileStore with real version-tag semantics.
// Tests use it to exercise conflict handling without a remote repository.
type MockFileStore struct {
	mu      sync.Mutex
	files   map[string]*store.File
	counter int

	// BeforeWrite, when set, runs inside Write before the version check.
	// Tests use it to interleave a concurrent writer.
	BeforeWrite func(path string)
}

func NewMockFileStore() *MockFileStore {
	return &MockFileStore{files: map[string]*store.File{}}
}

func (m *MockFileStore) Read(_ context.Context, path string) (*store.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[path]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := make([]byte, len(file.Content))
	copy(copied, file.Content)
	return &store.File{Content: copied, Version: file.Version}, nil
}

func (m *MockFileStore) Write(_ context.Context, path string, content []byte, _ string, expected *string) (string, error) {
	if m.BeforeWrite != nil {
		m.BeforeWrite(path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.files[path]
	if expected != nil {
		if *expected == "" && exists {
			return "", &store.ConflictError{Path: path}
		}
		if *expected != "" && (!exists || current.Version != *expected) {
			return "", &store.ConflictError{Path: path, Expected: *expected}
		}
	}

	m.counter++
	version := fmt.Sprintf("v%d", m.counter)
	copied := make([]byte, len(content))
	copy(copied, content)
	m.files[path] = &store.File{Content: copied, Version: version}
	return version, nil
}

// Content returns the current bytes at path, or nil if absent.
func (m *MockFileStore) Content(path string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[path]
	if !ok {
		return nil
	}
	return file.Content
}

// MockSource replays a scripted batch of updates and serves canned
// attachment bytes.
type MockSource struct {
	Updates       []source.Update
	FetchErr      error
	Attachments   map[string][]byte
	FetchedAfter  []int
	DownloadCalls int
}

func (m *MockSource) FetchUpdates(_ context.Context, afterID int, _ int) ([]source.Update, error) {
	m.FetchedAfter = append(m.FetchedAfter, afterID)
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	var batch []source.Update
	for _, u := range m.Updates {
		if u.ID > afterID {
			batch = append(batch, u)
		}
	}
	return batch, nil
}

func (m *MockSource) DownloadAttachment(_ context.Context, fileID string) ([]byte, error) {
	m.DownloadCalls++
	data, ok := m.Attachments[fileID]
	if !ok {
		return nil, fmt.Errorf("no such file %s", fileID)
	}
	return data, nil
}
