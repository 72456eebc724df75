package common

import "context"

// Sender отправляет текстовое сообщение в чат.
// Реализация поверх telego живёт в internal/bot, в тестах — фейк.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}
