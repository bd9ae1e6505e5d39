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
	"errors"

	"github.com/quillpress/quill/source"
	"github.com/quillpress/quill/store"
)

// Quill is the ingestion service. It drives one checkpointed pass over the
// message source and persists everything through the file store.
type Quill struct {
	store  store.FileStore
	source source.MessageSource
}

// NewQuill initializes the service with its two collaborators.
//
// Parameters:
// - fileStore store.FileStore: The versioned file repository adapter.
// - messageSource source.MessageSource: The inbound message platform.
//
// Returns:
// - *Quill: A pointer to the newly created Quill instance.
// - error: An error if either collaborator is missing.
func NewQuill(fileStore store.FileStore, messageSource source.MessageSource) (*Quill, error) {
	if fileStore == nil {
		return nil, errors.New("quill: file store is required")
	}
	if messageSource == nil {
		return nil, errors.New("quill: message source is required")
	}
	return &Quill{store: fileStore, source: messageSource}, nil
}
