package processor

import (
	"context"
	"time"

	"coffeehouse/coffee-service/internal/app/coffee/service"
	"coffeehouse/pkg/logger"
	"coffeehouse/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const warmupTimeout = 30 * time.Second

// CronScheduler периодически прогревает кеш первых страниц списков
type CronScheduler struct {
	cron    *cron.Cron
	warmers []service.CacheWarmer
}

func NewCronScheduler(warmers ...service.CacheWarmer) *CronScheduler {
	cronLogger := cron.VerbosePrintfLogger(logger.Printf{})
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger)),
	)

	return &CronScheduler{
		cron:    c,
		warmers: warmers,
	}
}

// Start регистрирует задачу и сразу выполняет первый прогрев
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cache warmup scheduler")

	if _, err := s.cron.AddFunc(schedule, func() { s.WarmAll(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	s.WarmAll(ctx)

	return nil
}

// WarmAll прогревает все сущности; ошибка одной не останавливает остальные
func (s *CronScheduler) WarmAll(ctx context.Context) {
	for _, w := range s.warmers {
		if ctx.Err() != nil {
			return
		}

		warmCtx, cancel := context.WithTimeout(ctx, warmupTimeout)
		err := w.WarmListCache(warmCtx)
		cancel()

		metrics.RecordCacheWarmup(w.EntityName(), err)
		if err != nil {
			logger.Warn().Err(err).Str("entity", w.EntityName()).Msg("Cache warmup failed")
			continue
		}
		logger.Debug().Str("entity", w.EntityName()).Msg("Cache warmup completed")
	}
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cache warmup scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cache warmup scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
