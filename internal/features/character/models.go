// Package character управляет профилем игрока: героем, уровнем, рангом и опытом.
// models.go описывает структуры данных профиля.
package character

import (
	"strings"
	"time"

	"serotonyl.ru/quest-bot/internal/features/quotes"
)

// Avatar — класс героя.
type Avatar string

const (
	AvatarWarrior   Avatar = "warrior"
	AvatarMage      Avatar = "mage"
	AvatarAssassin  Avatar = "assassin"
	AvatarArcher    Avatar = "archer"
	AvatarKnight    Avatar = "knight"
	AvatarBerserker Avatar = "berserker"
)

// avatarAliases — русские названия классов для команды !герой.
var avatarAliases = map[string]Avatar{
	"warrior": AvatarWarrior, "воин": AvatarWarrior,
	"mage": AvatarMage, "маг": AvatarMage,
	"assassin": AvatarAssassin, "ассасин": AvatarAssassin, "убийца": AvatarAssassin,
	"archer": AvatarArcher, "лучник": AvatarArcher,
	"knight": AvatarKnight, "рыцарь": AvatarKnight,
	"berserker": AvatarBerserker, "берсерк": AvatarBerserker,
}

// avatarTitles — как класс показывается в профиле.
var avatarTitles = map[Avatar]string{
	AvatarWarrior:   "⚔️ Воин",
	AvatarMage:      "🔮 Маг",
	AvatarAssassin:  "🗡 Ассасин",
	AvatarArcher:    "🏹 Лучник",
	AvatarKnight:    "🛡 Рыцарь",
	AvatarBerserker: "🪓 Берсерк",
}

// ParseAvatar разбирает класс героя (англ. или рус.).
func ParseAvatar(s string) (Avatar, bool) {
	a, ok := avatarAliases[strings.ToLower(strings.TrimSpace(s))]
	return a, ok
}

// Title возвращает название класса для показа.
func (a Avatar) Title() string {
	if t, ok := avatarTitles[a]; ok {
		return t
	}
	return string(a)
}

// Theme — цветовая тема героя.
type Theme string

const (
	ThemeBlue   Theme = "blue"
	ThemePurple Theme = "purple"
	ThemeRed    Theme = "red"
	ThemeGold   Theme = "gold"
	ThemeGreen  Theme = "green"
)

var themeAliases = map[string]Theme{
	"blue": ThemeBlue, "синий": ThemeBlue,
	"purple": ThemePurple, "фиолетовый": ThemePurple,
	"red": ThemeRed, "красный": ThemeRed,
	"gold": ThemeGold, "золотой": ThemeGold,
	"green": ThemeGreen, "зелёный": ThemeGreen, "зеленый": ThemeGreen,
}

// ParseTheme разбирает цветовую тему (англ. или рус.).
func ParseTheme(s string) (Theme, bool) {
	t, ok := themeAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// Character — внешний вид героя.
type Character struct {
	Name   string `db:"character_name"`
	Avatar Avatar `db:"avatar"`
	Theme  Theme  `db:"theme"`
}

// Preferences — пользовательские настройки.
type Preferences struct {
	Notifications bool `db:"notifications"` // Напоминания о воде и утренние цитаты
	SoundEffects  bool `db:"sound_effects"`
	Penalties     bool `db:"penalties"`
	DarkMode      bool `db:"dark_mode"`
}

// Profile представляет игрока в базе данных.
// Создаётся при первом сообщении боту, герой по умолчанию — Hunter/воин.
type Profile struct {
	ID               int64              `db:"id"`
	UserID           int64              `db:"user_id"`    // Telegram user ID (уникальный)
	Username         string             `db:"username"`   // @username (может быть пустым)
	FirstName        string             `db:"first_name"` // Имя пользователя
	Character        Character          // Герой
	Progression      Progression        // total_xp, level, rank
	Preferences      Preferences        // Настройки
	Personality      quotes.Personality `db:"personality"`       // Набор цитат
	CharacterCreated bool               `db:"character_created"` // Прошёл ли создание героя
	CreatedAt        time.Time          `db:"created_at"`
	UpdatedAt        time.Time          `db:"updated_at"`
}

// DisplayName возвращает имя героя, а если герой не создан — имя пользователя.
func (p *Profile) DisplayName() string {
	if p.CharacterCreated && p.Character.Name != "" {
		return p.Character.Name
	}
	if p.Username != "" {
		return "@" + p.Username
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	return DefaultCharacterName
}

// DefaultCharacterName — имя героя по умолчанию.
const DefaultCharacterName = "Hunter"

// maxCharacterNameRunes — лимит длины имени героя.
const maxCharacterNameRunes = 32

// DefaultProfile возвращает профиль нового игрока.
func DefaultProfile(userID int64, username, firstName string) *Profile {
	return &Profile{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		Character: Character{
			Name:   DefaultCharacterName,
			Avatar: AvatarWarrior,
			Theme:  ThemeBlue,
		},
		Progression: NewProgression(0),
		Preferences: Preferences{
			Notifications: true,
			SoundEffects:  true,
			Penalties:     false,
			DarkMode:      true,
		},
		Personality: quotes.PersonalityGeneral,
	}
}

// XPEvent — запись журнала начислений опыта.
type XPEvent struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Points      int64     `db:"points"`
	Source      string    `db:"source"` // quest_complete, hydration_streak, ...
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Источники опыта
const (
	SourceQuestComplete   = "quest_complete"   // Квест выполнен
	SourceHydrationStreak = "hydration_streak" // Дневная норма воды
)
