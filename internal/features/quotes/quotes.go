// Package quotes выдаёт мотивирующие цитаты: цитату дня по характеру героя
// и случайную фразу для напоминания о воде.
package quotes

import (
	"math/rand"
	"strings"
	"time"
)

// Personality — набор цитат, выбранный пользователем.
type Personality string

const (
	PersonalityGeneral   Personality = "general"
	PersonalityMasculine Personality = "masculine"
	PersonalityHustler   Personality = "hustler"
	PersonalityFitness   Personality = "fitness"
	PersonalityStudent   Personality = "student"
	PersonalitySpiritual Personality = "spiritual"
)

var daily = map[Personality][]string{
	PersonalityGeneral: {
		"Маленькие шаги каждый день складываются в большие перемены.",
		"Дисциплина — это выбор между тем, чего хочешь сейчас, и тем, чего хочешь больше всего.",
		"Не жди мотивации. Начни — и она придёт.",
		"Сегодняшний квест — завтрашняя сила.",
	},
	PersonalityMasculine: {
		"Сила строится, а не даётся. Заслужи её сегодня.",
		"Дисциплина делает тебя опасным. Постоянство — непобедимым.",
		"Главное оружие — умение управлять собой.",
		"Победи утро — победишь день.",
	},
	PersonalityHustler: {
		"Доход — отражение твоих навыков. Прокачай себя — вырастет и он.",
		"Тебе нужна не мотивация, а план и исполнение.",
		"Оставайся голодным. Работа сама себя не сделает.",
		"Сеть контактов и навыки определяют твою ценность. Строй и то, и другое.",
	},
	PersonalityFitness: {
		"Ещё один повтор — там и рождаются чемпионы.",
		"Маленький прогресс лучше никакого. Приходи сегодня.",
		"Постоянство строит тело, о котором мечтает разум.",
		"Дисциплина превращает цели в результаты.",
	},
	PersonalityStudent: {
		"Час учёбы сегодня экономит неделю паники завтра.",
		"Понимание важнее зубрёжки. Разбери одну тему до конца.",
		"Лучший способ выучить — объяснить другому.",
		"Каждая закрытая задача — новый уровень знаний.",
	},
	PersonalitySpiritual: {
		"Тишина внутри — сила снаружи.",
		"Будь здесь и сейчас. Этот момент — единственный, что у тебя есть.",
		"Благодарность превращает то, что есть, в достаточное.",
		"Медленно — тоже путь. Главное — не останавливаться.",
	},
}

var hydration = []string{
	"Вода — топливо для фокуса. Сделай пару глотков.",
	"Гидратированный мозг — продуктивный мозг.",
	"Маленькие глотки, большие победы. Держи темп.",
	"Выпей воды — заточи клинок. Глоток за глотком.",
	"Ясность начинается с воды. Минута на стакан.",
}

// ParsePersonality разбирает название набора цитат.
func ParsePersonality(s string) (Personality, bool) {
	p := Personality(strings.ToLower(strings.TrimSpace(s)))
	_, ok := daily[p]
	return p, ok
}

// All возвращает все наборы в стабильном порядке (для подсказок).
func All() []Personality {
	return []Personality{
		PersonalityGeneral, PersonalityMasculine, PersonalityHustler,
		PersonalityFitness, PersonalityStudent, PersonalitySpiritual,
	}
}

// DailyQuote выбирает цитату дня: одна и та же весь день.
// Сид = год + месяц (с нуля) + число, неизвестный характер = general.
func DailyQuote(personality Personality, day time.Time) string {
	list, ok := daily[personality]
	if !ok {
		list = daily[PersonalityGeneral]
	}
	seed := day.Year() + int(day.Month()) - 1 + day.Day()
	return list[seed%len(list)]
}

// HydrationQuote возвращает случайную фразу для напоминания о воде.
func HydrationQuote(rnd *rand.Rand) string {
	if rnd == nil {
		return hydration[rand.Intn(len(hydration))]
	}
	return hydration[rnd.Intn(len(hydration))]
}
