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
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quillpress/quill/model"
	"github.com/quillpress/quill/source"
)

func humanMessage() *source.Message {
	return &source.Message{
		MessageID: 42,
		Date:      1718000000,
		Text:      "Hello #BlogPost from the road #travel #blogpost",
		ChatID:    77,
		From: source.Sender{
			ID:        5,
			Username:  "ada",
			FirstName: "Ada",
			LastName:  "Lovelace",
		},
	}
}

func TestNormalizeIsPure(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	first := Normalize(humanMessage(), now)
	second := Normalize(humanMessage(), now)

	assert.Equal(t, first, second)
	assert.Equal(t, model.RecordID(1718000000, 42), first.ID)

	// A different processing clock must not change identity.
	later := Normalize(humanMessage(), now.Add(48*time.Hour))
	assert.Equal(t, first.ID, later.ID)
	assert.Equal(t, first.Timestamp, later.Timestamp)
}

func TestNormalizeFields(t *testing.T) {
	now := time.Now()
	record := Normalize(humanMessage(), now)

	assert.Equal(t, model.StatusPending, record.Status)
	assert.Equal(t, 42, record.TelegramMessageID)
	assert.Equal(t, int64(77), record.ChatID)
	assert.Equal(t, "ada", record.FromUser.Username)
	assert.Equal(t, time.Unix(1718000000, 0).UTC(), record.Timestamp)
	assert.Empty(t, record.Images)
	assert.Equal(t, []string{"blogpost", "travel"}, record.Tags)
}

func TestNormalizeContentFallsBackToCaption(t *testing.T) {
	m := humanMessage()
	m.Text = ""
	m.Caption = "a picture"

	record := Normalize(m, time.Now())
	assert.Equal(t, "a picture", record.Content)
}

func TestSkippable(t *testing.T) {
	assert.True(t, Skippable(nil))

	bot := humanMessage()
	bot.From.IsBot = true
	assert.True(t, Skippable(bot))

	empty := &source.Message{MessageID: 1, Date: 1, From: source.Sender{ID: 2}}
	assert.True(t, Skippable(empty))

	captionOnly := &source.Message{MessageID: 1, Date: 1, Caption: "pic"}
	assert.False(t, Skippable(captionOnly))

	photoOnly := &source.Message{MessageID: 1, Date: 1, Photos: []source.PhotoVariant{{FileID: "f"}}}
	assert.False(t, Skippable(photoOnly))

	assert.False(t, Skippable(humanMessage()))
}

func TestExtractTags(t *testing.T) {
	assert.Equal(t, []string{}, extractTags("no tags here"))
	assert.Equal(t, []string{"one"}, extractTags("#one #ONE #one"))
	assert.Equal(t, []string{"a", "b"}, extractTags("#a mid #b end"))
}
