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

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/quillpress/quill/config"
	"github.com/quillpress/quill/model"
	"github.com/quillpress/quill/store"
)

// loadQueue reads the current queue document together with its version tag.
// A missing file is an empty document with an empty tag, so the first append
// becomes a strict create. An unparseable document keeps its tag: the next
// conditioned write then rebuilds it in place.
func (q *Quill) loadQueue(ctx context.Context, queuePath string) (*model.QueueDocument, string, error) {
	file, err := q.store.Read(ctx, queuePath)
	if err == store.ErrNotFound {
		return model.NewQueueDocument(), "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load queue: %w", err)
	}

	var doc model.QueueDocument
	if err := json.Unmarshal(file.Content, &doc); err != nil {
		logrus.WithError(err).WithField("path", queuePath).
			Warn("queue document unparseable, rebuilding")
		return model.NewQueueDocument(), file.Version, nil
	}
	if doc.Version == "" {
		doc.Version = model.QueueSchemaVersion
	}
	return &doc, file.Version, nil
}

// AppendToQueue merges records into the shared queue document with a
// conditioned read-modify-write. On a version conflict the document is
// re-read and the merge retried a bounded number of times; records whose ID
// is already queued are silently skipped, which is what makes re-merging a
// refetched batch idempotent.
func (q *Quill) AppendToQueue(ctx context.Context, records []model.PendingRecord) error {
	if len(records) == 0 {
		return nil
	}

	cnf, err := config.Fetch()
	if err != nil {
		return err
	}

	merge := func() error {
		doc, version, err := q.loadQueue(ctx, cnf.Storage.QueuePath)
		if err != nil {
			return backoff.Permanent(err)
		}

		added := doc.Append(records...)
		if added == 0 {
			logrus.WithField("records", len(records)).Info("all records already queued")
			return nil
		}
		doc.LastUpdated = time.Now().UTC()

		content, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return backoff.Permanent(fmt.Errorf("encode queue: %w", err))
		}

		message := fmt.Sprintf("Add pending message %s", records[0].ID)
		if added > 1 {
			message = fmt.Sprintf("Add %d pending messages", added)
		}

		if _, err := q.store.Write(ctx, cnf.Storage.QueuePath, content, message, &version); err != nil {
			if store.IsConflict(err) {
				logrus.WithField("path", cnf.Storage.QueuePath).Warn("queue write conflicted, retrying merge")
				return err
			}
			return backoff.Permanent(fmt.Errorf("write queue: %w", err))
		}
		logrus.WithField("added", added).Info("records merged into pending queue")
		return nil
	}

	policy := backoff.WithMaxRetries(newMergeBackOff(), uint64(cnf.Storage.MergeRetries))
	if err := backoff.Retry(merge, backoff.WithContext(policy, ctx)); err != nil {
		return fmt.Errorf("append to queue: %w", err)
	}
	return nil
}

func newMergeBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}
