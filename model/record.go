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
package model

import (
	"fmt"
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// QueueSchemaVersion is the schema version written into every queue document.
// It is part of the document body, not the store's concurrency tag.
const QueueSchemaVersion = "1.0"

// Author identifies the Telegram user a pending record originated from.
type Author struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Attachment describes one image persisted alongside a pending record. The
// Path is the public path served by the site, not the repository path the
// bytes were committed under.
type Attachment struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Caption  string `json:"caption"`
	FileID   string `json:"file_id"`
	FileSize int64  `json:"file_size,omitempty"`
}

// PendingRecord is one normalized message awaiting review. Its ID is derived
// from immutable source facts, so reprocessing the same Telegram message
// always yields the same identity.
type PendingRecord struct {
	ID                string       `json:"id"`
	TelegramMessageID int          `json:"telegram_message_id"`
	Content           string       `json:"content"`
	Images            []Attachment `json:"images"`
	Timestamp         time.Time    `json:"timestamp"`
	Status            string       `json:"status"`
	Tags              []string     `json:"tags"`
	CreatedAt         time.Time    `json:"created_at"`
	ChatID            int64        `json:"chat_id"`
	FromUser          Author       `json:"from_user"`
}

// RecordID derives the identity of a pending record from the message's unix
// timestamp and Telegram message ID. It must never depend on processing time.
func RecordID(date int64, messageID int) string {
	return fmt.Sprintf("msg_%d_%d", date, messageID)
}

// QueueDocument is the single JSON aggregate holding all pending records. It
// lives at a fixed path in the content repository and is rewritten whole on
// every merge.
type QueueDocument struct {
	Messages    []PendingRecord `json:"messages"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Version     string          `json:"version"`
}

// NewQueueDocument returns an empty document at the current schema version.
func NewQueueDocument() *QueueDocument {
	return &QueueDocument{
		Messages: []PendingRecord{},
		Version:  QueueSchemaVersion,
	}
}

// Contains reports whether a record with the given ID is already queued.
func (q *QueueDocument) Contains(id string) bool {
	for i := range q.Messages {
		if q.Messages[i].ID == id {
			return true
		}
	}
	return false
}

// Append adds records in order, skipping any whose ID is already present.
// It returns the number of records actually added.
func (q *QueueDocument) Append(records ...PendingRecord) int {
	added := 0
	for _, record := range records {
		if q.Contains(record.ID) {
			continue
		}
		q.Messages = append(q.Messages, record)
		added++
	}
	return added
}
