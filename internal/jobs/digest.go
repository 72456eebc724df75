package jobs

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/features/character"
	"serotonyl.ru/quest-bot/internal/features/quests"
	"serotonyl.ru/quest-bot/internal/features/quotes"
)

// ProfileLister отдаёт профили с включёнными уведомлениями.
type ProfileLister interface {
	ListNotifiable(ctx context.Context) ([]*character.Profile, error)
}

// DayPlanner отдаёт квест дня пользователя.
type DayPlanner interface {
	Today(ctx context.Context, userID int64) (*quests.DailyQuest, error)
}

// Digest — утренняя рассылка: цитата дня по характеру и план на день.
type Digest struct {
	profiles ProfileLister
	quests   DayPlanner
	sender   common.Sender
	clock    *common.Clock
}

func NewDigest(profiles ProfileLister, quests DayPlanner, sender common.Sender, clock *common.Clock) *Digest {
	return &Digest{profiles: profiles, quests: quests, sender: sender, clock: clock}
}

// Send рассылает дайджест всем подписанным. Ошибка одного получателя
// не останавливает рассылку остальным.
func (d *Digest) Send(ctx context.Context) error {
	profiles, err := d.profiles.ListNotifiable(ctx)
	if err != nil {
		return fmt.Errorf("ошибка выбора получателей: %w", err)
	}

	sent := 0
	for _, p := range profiles {
		dq, err := d.quests.Today(ctx, p.UserID)
		if err != nil {
			log.WithError(err).WithField("user_id", p.UserID).Warn("Не удалось получить квесты для дайджеста")
		}
		if err := d.sender.SendText(ctx, p.UserID, d.render(p, dq)); err != nil {
			log.WithError(err).WithField("user_id", p.UserID).Warn("Не удалось отправить дайджест")
			continue
		}
		sent++
	}

	log.WithFields(log.Fields{"sent": sent, "total": len(profiles)}).Info("Дайджест разослан")
	return nil
}

func (d *Digest) render(p *character.Profile, dq *quests.DailyQuest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "☀️ Доброе утро, %s!\n\n", p.DisplayName())
	fmt.Fprintf(&sb, "💬 %s\n\n", quotes.DailyQuote(p.Personality, d.clock.Now()))

	switch {
	case dq == nil:
		sb.WriteString("📜 Квест дня: !квесты")
	case len(dq.Quests) == 0:
		sb.WriteString("📜 Квестов на сегодня нет. Добавь: !квест средний 10 учёба Прочитать 10 страниц")
	default:
		n := len(dq.Quests) - dq.Completed
		fmt.Fprintf(&sb, "📜 На сегодня: %d %s, награда до %s",
			n, common.PluralizeQuests(n), common.FormatXP(dq.PotentialPoints-dq.RewardPoints))
	}
	return sb.String()
}
