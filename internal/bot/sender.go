package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// TelegoSender отправляет текстовые сообщения через Telegram Bot API.
type TelegoSender struct {
	api *telego.Bot
}

// NewTelegoSender создаёт отправителя поверх telego.
func NewTelegoSender(api *telego.Bot) *TelegoSender {
	return &TelegoSender{api: api}
}

// SendText отправляет сообщение в чат.
func (s *TelegoSender) SendText(ctx context.Context, chatID int64, text string) error {
	if _, err := s.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("ошибка отправки в чат %d: %w", chatID, err)
	}
	return nil
}
