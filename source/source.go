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

// Package source defines the inbound message collaborator: a platform that
// can hand over a bounded batch of updates past a cursor and serve the raw
// bytes of an attachment.
package source

import "context"

// Update is one entry from the platform's update feed. Message is nil for
// update kinds the pipeline does not ingest; their IDs still advance the
// checkpoint because they were observed.
type Update struct {
	ID      int
	Message *Message
}

// Message is the platform-neutral view of one inbound chat message.
type Message struct {
	MessageID int
	Date      int64 // unix timestamp assigned by the platform
	Text      string
	Caption   string
	Photos    []PhotoVariant
	From      Sender
	ChatID    int64
}

// PhotoVariant is one resolution of the same photo attachment.
type PhotoVariant struct {
	FileID   string
	FileSize int64
	Width    int
	Height   int
}

// Sender carries the author metadata the queue records.
type Sender struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	IsBot     bool
}

// HasContent reports whether the message carries anything worth queueing.
func (m *Message) HasContent() bool {
	return m.Text != "" || m.Caption != "" || len(m.Photos) > 0
}

// LargestPhoto returns the highest-resolution variant, or nil if the message
// has no photo.
func (m *Message) LargestPhoto() *PhotoVariant {
	if len(m.Photos) == 0 {
		return nil
	}
	best := &m.Photos[0]
	for i := range m.Photos[1:] {
		candidate := &m.Photos[i+1]
		if candidate.Width*candidate.Height > best.Width*best.Height {
			best = candidate
		}
	}
	return best
}

// MessageSource is the contract the run controller fetches through.
type MessageSource interface {
	// FetchUpdates returns updates with IDs strictly greater than afterID,
	// waiting up to timeoutSeconds for new ones before returning an empty
	// batch.
	FetchUpdates(ctx context.Context, afterID int, timeoutSeconds int) ([]Update, error)

	// DownloadAttachment resolves fileID to a transient location and
	// returns the attachment bytes.
	DownloadAttachment(ctx context.Context, fileID string) ([]byte, error)
}
