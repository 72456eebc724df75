// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и rate-limiting.
package middleware

import (
	"time"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// maxLoggedRunes — сколько символов текста попадает в лог.
const maxLoggedRunes = 50

// LogMessage логирует входящее сообщение.
// Записывает: user_id, chat_id, username, текст (первые 50 символов).
func LogMessage(message *telego.Message) {
	if message == nil || message.From == nil {
		return
	}

	log.WithFields(log.Fields{
		"user_id":  message.From.ID,
		"chat_id":  message.Chat.ID,
		"username": message.From.Username,
		"text":     Truncate(message.Text, maxLoggedRunes),
		"time":     time.Now().Format("15:04:05"),
	}).Debug("Входящее сообщение")
}

// Truncate обрезает строку по символам, а не байтам.
func Truncate(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
