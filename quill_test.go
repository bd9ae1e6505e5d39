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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillpress/quill/config"
)

const (
	testCheckpointPath = "data/last-update-id.json"
	testQueuePath      = "data/pending-messages.json"
)

// newTestQuill wires the service over in-memory collaborators and installs a
// minimal mock configuration.
func newTestQuill(t *testing.T) (*Quill, *MockFileStore, *MockSource) {
	t.Helper()

	config.MockConfig(&config.Configuration{
		ProjectName: "Quill Test",
		Telegram:    config.TelegramConfig{BotToken: "test-token", PollTimeoutSeconds: 1},
		GitHub:      config.GitHubConfig{Token: "gh-token", Owner: "owner", Repo: "repo"},
		Storage: config.StorageConfig{
			CheckpointPath: testCheckpointPath,
			QueuePath:      testQueuePath,
			ImageDir:       "static/images",
			ImagePrefix:    "/images",
			MergeRetries:   3,
		},
	})

	fileStore := NewMockFileStore()
	messageSource := &MockSource{}
	q, err := NewQuill(fileStore, messageSource)
	assert.NoError(t, err)
	return q, fileStore, messageSource
}

func TestNewQuillRequiresCollaborators(t *testing.T) {
	_, err := NewQuill(nil, &MockSource{})
	assert.Error(t, err)

	_, err = NewQuill(NewMockFileStore(), nil)
	assert.Error(t, err)

	q, err := NewQuill(NewMockFileStore(), &MockSource{})
	assert.NoError(t, err)
	assert.NotNil(t, q)
}
