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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordIDIsDeterministic(t *testing.T) {
	first := RecordID(1718000000, 42)
	second := RecordID(1718000000, 42)

	assert.Equal(t, first, second)
	assert.Equal(t, "msg_1718000000_42", first)

	assert.NotEqual(t, first, RecordID(1718000000, 43))
	assert.NotEqual(t, first, RecordID(1718000001, 42))
}

func TestQueueDocumentAppendSkipsDuplicates(t *testing.T) {
	doc := NewQueueDocument()

	a := PendingRecord{ID: "msg_1_1", Content: "first"}
	b := PendingRecord{ID: "msg_1_2", Content: "second"}

	added := doc.Append(a, b)
	assert.Equal(t, 2, added)

	// Re-appending the same batch is a no-op.
	added = doc.Append(a, b)
	assert.Equal(t, 0, added)
	assert.Len(t, doc.Messages, 2)

	// Order is arrival order.
	assert.Equal(t, "msg_1_1", doc.Messages[0].ID)
	assert.Equal(t, "msg_1_2", doc.Messages[1].ID)
}

func TestQueueDocumentContains(t *testing.T) {
	doc := NewQueueDocument()
	doc.Append(PendingRecord{ID: "msg_9_9"})

	assert.True(t, doc.Contains("msg_9_9"))
	assert.False(t, doc.Contains("msg_9_10"))
}

func TestQueueDocumentWireFormat(t *testing.T) {
	doc := NewQueueDocument()
	doc.LastUpdated = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	doc.Append(PendingRecord{
		ID:                "msg_1718000000_42",
		TelegramMessageID: 42,
		Content:           "Hello",
		Images:            []Attachment{},
		Status:            StatusPending,
		Tags:              []string{},
		ChatID:            77,
		FromUser:          Author{ID: 5, Username: "ada"},
	})

	raw, err := json.Marshal(doc)
	assert.NoError(t, err)

	// Keys must stay compatible with documents written by earlier releases.
	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "messages")
	assert.Contains(t, decoded, "lastUpdated")
	assert.Equal(t, QueueSchemaVersion, decoded["version"])

	message := decoded["messages"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(42), message["telegram_message_id"])
	assert.Contains(t, message, "images")
	assert.Contains(t, message, "from_user")
	assert.Contains(t, message, "chat_id")
}
