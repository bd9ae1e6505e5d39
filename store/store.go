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

// Package store abstracts the versioned whole-file repository the pipeline
// persists into. Every successful write is one commit in the backing
// repository, which doubles as the system's audit log.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Read when no file exists at the given path.
var ErrNotFound = errors.New("store: file not found")

// ConflictError reports a conditioned write that lost the race: the file's
// current version tag no longer matches the tag the caller read.
type ConflictError struct {
	Path     string
	Expected string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: conflicting write to %s (expected version %q)", e.Path, e.Expected)
}

// IsConflict reports whether err is a version-tag conflict.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// File is the content of a stored file together with the opaque version tag
// the store assigned to it.
type File struct {
	Content []byte
	Version string
}

// FileStore is the whole-file read/write contract shared by the checkpoint
// manager, the queue merger, and the attachment persister.
//
// Write's expected parameter selects the concurrency mode:
//   - nil: unconditioned create-or-update, last writer wins.
//   - pointer to "": create only; fails with ConflictError if the path
//     already exists.
//   - pointer to a tag: update only if the store's current tag matches,
//     otherwise ConflictError.
//
// message is the commit message recorded for the write.
type FileStore interface {
	Read(ctx context.Context, path string) (*File, error)
	Write(ctx context.Context, path string, content []byte, message string, expected *string) (string, error)
}
