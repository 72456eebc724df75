package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/quest-bot/internal/db/postgres"
)

// Migrations возвращает схему БД по версиям.
// SQL встроен в код для упрощения деплоя: бинарь сам поднимает схему.
func Migrations() []postgres.Migration {
	return []postgres.Migration{
		{Version: 1, Name: "profiles", SQL: migration001Profiles},
		{Version: 2, Name: "xp_events", SQL: migration002XPEvents},
		{Version: 3, Name: "quests", SQL: migration003Quests},
		{Version: 4, Name: "daily_entries", SQL: migration004DailyEntries},
		{Version: 5, Name: "hydration", SQL: migration005Hydration},
	}
}

// RunMigrations применяет все миграции приложения.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	n, err := postgres.Migrate(ctx, pool, Migrations())
	if err != nil {
		return n, fmt.Errorf("ошибка миграций: %w", err)
	}
	return n, nil
}

var migration001Profiles = `
CREATE TABLE IF NOT EXISTS profiles (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255) NOT NULL DEFAULT '',
    first_name VARCHAR(255) NOT NULL DEFAULT '',
    character_name VARCHAR(64) NOT NULL DEFAULT 'Hunter',
    avatar VARCHAR(32) NOT NULL DEFAULT 'warrior',
    theme VARCHAR(32) NOT NULL DEFAULT 'blue',
    total_xp BIGINT NOT NULL DEFAULT 0 CHECK (total_xp >= 0),
    level INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
    rank VARCHAR(4) NOT NULL DEFAULT 'E',
    notifications BOOLEAN NOT NULL DEFAULT TRUE,
    sound_effects BOOLEAN NOT NULL DEFAULT TRUE,
    penalties BOOLEAN NOT NULL DEFAULT FALSE,
    dark_mode BOOLEAN NOT NULL DEFAULT TRUE,
    personality VARCHAR(32) NOT NULL DEFAULT 'general',
    character_created BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_profiles_notifications ON profiles(user_id) WHERE notifications;
`

var migration002XPEvents = `
CREATE TABLE IF NOT EXISTS xp_events (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
    points BIGINT NOT NULL,
    source VARCHAR(50) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_xp_events_user_created ON xp_events(user_id, created_at DESC);
`

var migration003Quests = `
CREATE TABLE IF NOT EXISTS quests (
    id UUID PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
    title VARCHAR(400) NOT NULL,
    difficulty VARCHAR(16) NOT NULL,
    goal INTEGER NOT NULL CHECK (goal >= 1),
    progress INTEGER NOT NULL DEFAULT 0 CHECK (progress >= 0),
    points BIGINT NOT NULL DEFAULT 0,
    category VARCHAR(32) NOT NULL DEFAULT 'other',
    quest_date DATE NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    rewarded BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_quests_user_date ON quests(user_id, quest_date, created_at);
`

var migration004DailyEntries = `
CREATE TABLE IF NOT EXISTS daily_entries (
    id UUID PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
    entry_date DATE NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    mood TEXT NOT NULL DEFAULT '',
    memories TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, entry_date)
);
`

var migration005Hydration = `
CREATE TABLE IF NOT EXISTS hydration (
    user_id BIGINT PRIMARY KEY REFERENCES profiles(user_id) ON DELETE CASCADE,
    today_total_litres DOUBLE PRECISION NOT NULL DEFAULT 0,
    daily_goal_litres DOUBLE PRECISION NOT NULL DEFAULT 2.0,
    streak_days INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    last_ack TIMESTAMPTZ,
    last_goal_completed TIMESTAMPTZ,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
