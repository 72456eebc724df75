// Package filters решает, какие сообщения бот обрабатывает.
package filters

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает только личные сообщения от живых пользователей.
// Квесты, вода и дневник личные, в группах бот молчит.
type ChatFilter struct{}

func NewChatFilter() *ChatFilter {
	return &ChatFilter{}
}

func (f *ChatFilter) CheckAccess(message *telego.Message) bool {
	if message == nil {
		log.WithField("component", "ChatFilter").Warn("nil message")
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Warn("nil message.From (service/channel message?)")
		return false
	}

	logger := log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
		"user_id":   message.From.ID,
	})

	if message.From.IsBot {
		logger.Debug("deny: bot sender")
		return false
	}
	if message.Chat.Type != telego.ChatTypePrivate {
		logger.Debug("deny: not private")
		return false
	}

	logger.Debug("allow: private")
	return true
}
