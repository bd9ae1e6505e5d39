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
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quillpress/quill/config"
	"github.com/quillpress/quill/model"
	"github.com/quillpress/quill/store"
)

// LoadCheckpoint returns the last ingested update ID. A missing or
// unparseable checkpoint file means "never run" and yields 0; only a store
// read failure is an error, since fetching with a wrong cursor would
// reprocess or skip real messages.
func (q *Quill) LoadCheckpoint(ctx context.Context) (int, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return 0, err
	}

	file, err := q.store.Read(ctx, cnf.Storage.CheckpointPath)
	if err == store.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load checkpoint: %w", err)
	}

	var checkpoint model.Checkpoint
	if err := json.Unmarshal(file.Content, &checkpoint); err != nil {
		logrus.WithError(err).WithField("path", cnf.Storage.CheckpointPath).
			Warn("checkpoint unparseable, treating as never run")
		return 0, nil
	}
	return checkpoint.LastUpdateID, nil
}

// SaveCheckpoint records updateID as the last ingested update. The write is
// last-writer-wins: the checkpoint is advisory, and record identity in the
// queue is what actually prevents duplicates.
func (q *Quill) SaveCheckpoint(ctx context.Context, updateID int) error {
	cnf, err := config.Fetch()
	if err != nil {
		return err
	}

	checkpoint := model.Checkpoint{
		LastUpdateID: updateID,
		UpdatedAt:    time.Now().UTC(),
	}
	content, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	message := fmt.Sprintf("Update last processed update ID to %d", updateID)
	if _, err := q.store.Write(ctx, cnf.Storage.CheckpointPath, content, message, nil); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}
