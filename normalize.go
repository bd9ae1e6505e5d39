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
	"regexp"
	"strings"
	"time"

	"github.com/quillpress/quill/model"
	"github.com/quillpress/quill/source"
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// Skippable reports whether a message should never enter the queue: bot
// authors and messages with neither text, caption, nor attachment. Skipped
// messages still advance the checkpoint since they were observed.
func Skippable(m *source.Message) bool {
	if m == nil {
		return true
	}
	if m.From.IsBot {
		return true
	}
	return !m.HasContent()
}

// Normalize converts a raw message into its canonical pending record. It is
// pure: the record's identity and fields depend only on the message and the
// supplied clock, so reprocessing the same message yields the same record.
// Attachments are filled in separately because persisting them does I/O.
func Normalize(m *source.Message, now time.Time) model.PendingRecord {
	content := m.Text
	if content == "" {
		content = m.Caption
	}

	return model.PendingRecord{
		ID:                model.RecordID(m.Date, m.MessageID),
		TelegramMessageID: m.MessageID,
		Content:           content,
		Images:            []model.Attachment{},
		Timestamp:         time.Unix(m.Date, 0).UTC(),
		Status:            model.StatusPending,
		Tags:              extractTags(content),
		CreatedAt:         now.UTC(),
		ChatID:            m.ChatID,
		FromUser: model.Author{
			ID:        m.From.ID,
			Username:  m.From.Username,
			FirstName: m.From.FirstName,
			LastName:  m.From.LastName,
		},
	}
}

// extractTags lifts #hashtags out of the content, lowercased, first
// occurrence wins. The downstream review UI filters on these.
func extractTags(content string) []string {
	tags := []string{}
	seen := map[string]bool{}
	for _, match := range hashtagPattern.FindAllStringSubmatch(content, -1) {
		tag := strings.ToLower(match[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
