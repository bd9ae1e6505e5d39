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
	"path"

	"github.com/sirupsen/logrus"

	"github.com/quillpress/quill/config"
	"github.com/quillpress/quill/model"
	"github.com/quillpress/quill/source"
)

// persistAttachment downloads the message's highest-resolution photo and
// commits it under the record's namespace. Failures are logged and reported
// as nil: a broken attachment degrades the record to text-only, it never
// blocks ingestion.
func (q *Quill) persistAttachment(ctx context.Context, m *source.Message, recordID string) *model.Attachment {
	photo := m.LargestPhoto()
	if photo == nil {
		return nil
	}

	log := logrus.WithFields(logrus.Fields{"record_id": recordID, "file_id": photo.FileID})

	cnf, err := config.Fetch()
	if err != nil {
		log.WithError(err).Warn("skipping attachment, config unavailable")
		return nil
	}

	data, err := q.source.DownloadAttachment(ctx, photo.FileID)
	if err != nil {
		log.WithError(err).Warn("skipping attachment, download failed")
		return nil
	}

	// Namespacing by record ID keeps reruns of the same message writing to
	// the same path instead of colliding with other records.
	filename := fmt.Sprintf("%s_%s.jpg", recordID, photo.FileID)
	repoPath := path.Join(cnf.Storage.ImageDir, recordID, filename)

	message := fmt.Sprintf("Add image from Telegram message %s", recordID)
	if _, err := q.store.Write(ctx, repoPath, data, message, nil); err != nil {
		log.WithError(err).Warn("skipping attachment, store write failed")
		return nil
	}
	log.Info("attachment persisted")

	return &model.Attachment{
		Filename: filename,
		Path:     path.Join(cnf.Storage.ImagePrefix, recordID, filename),
		Caption:  m.Caption,
		FileID:   photo.FileID,
		FileSize: photo.FileSize,
	}
}
