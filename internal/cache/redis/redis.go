// Package redis — подключение к Redis и ключи отсрочки напоминаний.
// Ключ живёт interval: пока он есть, пользователю не пишут повторно,
// даже если запущено несколько экземпляров бота.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// PrefixSnooze — пространство имён ключей отсрочки.
const PrefixSnooze = "questbot:snooze:"

// ErrEmptyKey — пустой ключ отсрочки.
var ErrEmptyKey = errors.New("redis: пустой ключ")

// Config — параметры подключения.
type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Client — обёртка над go-redis.
type Client struct {
	rdb *redis.Client
}

// New подключается к Redis и проверяет соединение.
func New(cfg Config) (*Client, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis (%s): %w", cfg.Addr, err)
	}

	log.WithField("addr", cfg.Addr).Info("Redis подключён")
	return NewFromClient(rdb), nil
}

// NewFromClient оборачивает готовый клиент.
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Claim ставит ключ отсрочки на ttl (SET NX EX).
// true — ключ поставлен сейчас, можно слать; false — уже стоит.
func (c *Client) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	ok, err := c.rdb.SetNX(ctx, PrefixSnooze+key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("ошибка записи ключа отсрочки: %w", err)
	}
	return ok, nil
}

// Release снимает отсрочку (пользователь сам отметился).
func (c *Client) Release(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := c.rdb.Del(ctx, PrefixSnooze+key).Err(); err != nil {
		return fmt.Errorf("ошибка удаления ключа отсрочки: %w", err)
	}
	return nil
}

// Ping проверяет доступность Redis.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close закрывает соединение.
func (c *Client) Close() error {
	return c.rdb.Close()
}
