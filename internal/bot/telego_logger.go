package bot

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// telegoLogger направляет ошибки telego в logrus.
// Debug-вывод telego содержит URL запросов с токеном, его не пишем.
type telegoLogger struct {
	entry *log.Entry
}

func (l telegoLogger) Debugf(string, ...any) {}

func (l telegoLogger) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

// NewAPI создаёт клиент Telegram Bot API.
func NewAPI(token string) (*telego.Bot, error) {
	return telego.NewBot(token, telego.WithLogger(telegoLogger{entry: log.WithField("component", "telego")}))
}
