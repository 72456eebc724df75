// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: напоминания о воде каждую минуту
// и утреннюю рассылку цитаты дня.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ReminderJob — рассылка напоминаний о воде. Реализуется hydration.Handler.
type ReminderJob interface {
	SendReminders(ctx context.Context)
}

// Options — расписание задач. Пустое выражение отключает задачу.
type Options struct {
	Location        *time.Location
	ReminderSpec    string
	QuoteDigestCron string
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron      *cron.Cron
	opts      Options
	reminders ReminderJob
	digest    *Digest
}

// NewScheduler создаёт планировщик в часовом поясе приложения.
// reminders и digest могут быть nil — соответствующая задача не регистрируется.
func NewScheduler(opts Options, reminders ReminderJob, digest *Digest) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	logger := cron.PrintfLogger(log.StandardLogger())
	c := cron.New(
		cron.WithLocation(opts.Location),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	return &Scheduler{
		cron:      c,
		opts:      opts,
		reminders: reminders,
		digest:    digest,
	}
}

// Start регистрирует задачи и запускает планировщик.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.reminders != nil && s.opts.ReminderSpec != "" {
		_, err := s.cron.AddFunc(s.opts.ReminderSpec, func() {
			log.Debug("[CRON] Проверка напоминаний о воде")
			s.reminders.SendReminders(ctx)
		})
		if err != nil {
			return fmt.Errorf("расписание напоминаний %q: %w", s.opts.ReminderSpec, err)
		}
	}

	if s.digest != nil && s.opts.QuoteDigestCron != "" {
		_, err := s.cron.AddFunc(s.opts.QuoteDigestCron, func() {
			log.Info("[CRON] Утренняя рассылка цитаты дня")
			if err := s.digest.Send(ctx); err != nil {
				log.WithError(err).Error("[CRON] Ошибка рассылки цитаты")
			}
		})
		if err != nil {
			return fmt.Errorf("расписание цитаты %q: %w", s.opts.QuoteDigestCron, err)
		}
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"timezone": s.opts.Location.String(),
		"jobs":     len(s.cron.Entries()),
	}).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
