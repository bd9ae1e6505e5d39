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
package source

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/quillpress/quill/internal/request"
)

// TelegramSource fetches updates through the Telegram Bot API using
// getUpdates long polling.
type TelegramSource struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramSource authenticates the bot token against the Telegram API.
func NewTelegramSource(token string) (*TelegramSource, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("source: telegram auth failed: %w", err)
	}
	logrus.WithField("bot", bot.Self.UserName).Info("telegram source connected")
	return &TelegramSource{bot: bot}, nil
}

// FetchUpdates long-polls for message updates past afterID. Telegram's
// offset parameter names the first wanted ID, so the cursor is shifted by
// one here rather than by the caller.
func (s *TelegramSource) FetchUpdates(_ context.Context, afterID int, timeoutSeconds int) ([]Update, error) {
	cfg := tgbotapi.NewUpdate(afterID + 1)
	cfg.Timeout = timeoutSeconds
	cfg.AllowedUpdates = []string{"message"}

	raw, err := s.bot.GetUpdates(cfg)
	if err != nil {
		return nil, fmt.Errorf("source: getUpdates: %w", err)
	}

	updates := make([]Update, 0, len(raw))
	for _, u := range raw {
		updates = append(updates, fromTelegramUpdate(u))
	}
	return updates, nil
}

// DownloadAttachment resolves the file ID to Telegram's transient download
// URL and fetches the bytes.
func (s *TelegramSource) DownloadAttachment(ctx context.Context, fileID string) ([]byte, error) {
	url, err := s.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("source: resolve file %s: %w", fileID, err)
	}
	data, err := request.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("source: download file %s: %w", fileID, err)
	}
	return data, nil
}

func fromTelegramUpdate(u tgbotapi.Update) Update {
	out := Update{ID: u.UpdateID}
	if u.Message == nil {
		return out
	}
	m := u.Message

	msg := &Message{
		MessageID: m.MessageID,
		Date:      int64(m.Date),
		Text:      m.Text,
		Caption:   m.Caption,
		ChatID:    m.Chat.ID,
	}
	if m.From != nil {
		msg.From = Sender{
			ID:        m.From.ID,
			Username:  m.From.UserName,
			FirstName: m.From.FirstName,
			LastName:  m.From.LastName,
			IsBot:     m.From.IsBot,
		}
	}
	for _, p := range m.Photo {
		msg.Photos = append(msg.Photos, PhotoVariant{
			FileID:   p.FileID,
			FileSize: int64(p.FileSize),
			Width:    p.Width,
			Height:   p.Height,
		})
	}
	out.Message = msg
	return out
}
