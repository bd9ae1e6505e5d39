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
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quillpress/quill/config"
	"github.com/quillpress/quill/model"
	"github.com/quillpress/quill/source"
)

// RunResult summarizes one ingestion pass.
type RunResult struct {
	Fetched      int
	Processed    int
	Skipped      int
	Failed       int
	LastUpdateID int
}

// RunIngestion executes one end-to-end pass: load checkpoint, fetch one
// batch, normalize and enrich each kept message, merge the batch into the
// pending queue, then advance the checkpoint. The checkpoint is only saved
// after the merge commits, so a crash anywhere earlier just refetches the
// same batch next run and the idempotent merge absorbs it.
func (q *Quill) RunIngestion(ctx context.Context) (*RunResult, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	log := logrus.WithField("run_id", uuid.New().String())

	since, err := q.LoadCheckpoint(ctx)
	if err != nil {
		return nil, err
	}
	log.WithField("after_update_id", since).Info("fetching updates")

	updates, err := q.source.FetchUpdates(ctx, since, cnf.Telegram.PollTimeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("fetch updates: %w", err)
	}

	result := &RunResult{Fetched: len(updates), LastUpdateID: since}
	if len(updates) == 0 {
		log.Info("no new updates found")
		return result, nil
	}

	var newRecords []model.PendingRecord
	for _, update := range updates {
		if update.ID > result.LastUpdateID {
			result.LastUpdateID = update.ID
		}

		record, ok := q.processUpdate(ctx, log, update)
		if record == nil {
			if ok {
				result.Skipped++
			} else {
				result.Failed++
			}
			continue
		}
		newRecords = append(newRecords, *record)
	}

	if len(newRecords) > 0 {
		if err := q.AppendToQueue(ctx, newRecords); err != nil {
			// Checkpoint stays put: the whole batch is refetched and
			// re-merged on the next scheduled run.
			return result, err
		}
		result.Processed = len(newRecords)
	}

	if result.LastUpdateID > since {
		if err := q.SaveCheckpoint(ctx, result.LastUpdateID); err != nil {
			log.WithError(err).Warn("checkpoint save failed, next run will re-merge this batch")
		}
	}

	log.WithFields(logrus.Fields{
		"fetched":        result.Fetched,
		"processed":      result.Processed,
		"skipped":        result.Skipped,
		"failed":         result.Failed,
		"last_update_id": result.LastUpdateID,
	}).Info("ingestion run complete")
	return result, nil
}

// processUpdate turns one update into a pending record. The second return
// distinguishes a deliberate skip (true) from a per-message failure (false);
// either way the update's ID still advances the checkpoint, so one bad
// message cannot be reprocessed forever.
func (q *Quill) processUpdate(ctx context.Context, log *logrus.Entry, update source.Update) (record *model.PendingRecord, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.WithFields(logrus.Fields{"update_id": update.ID, "panic": rec}).
				Error("message processing failed")
			record, ok = nil, false
		}
	}()

	if update.Message == nil || Skippable(update.Message) {
		return nil, true
	}

	normalized := Normalize(update.Message, time.Now())
	if attachment := q.persistAttachment(ctx, update.Message, normalized.ID); attachment != nil {
		normalized.Images = append(normalized.Images, *attachment)
	}
	return &normalized, true
}
