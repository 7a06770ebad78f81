package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// QuoteRefresher pulls the daily quote into every loaded client on a schedule.
type QuoteRefresher struct {
	registry *Registry
	schedule string
	logger   *zap.Logger
}

func NewQuoteRefresher(registry *Registry, schedule string, logger *zap.Logger) *QuoteRefresher {
	return &QuoteRefresher{registry: registry, schedule: schedule, logger: logger}
}

// Start runs the schedule until ctx is done. An empty schedule disables it.
func (q *QuoteRefresher) Start(ctx context.Context) error {
	if q.schedule == "" {
		q.logger.Info("quote refresh disabled")
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(q.schedule, func() {
		q.logger.Info("cron triggered: refreshing daily quote")
		q.RefreshAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("add quote cron job: %w", err)
	}

	c.Start()
	q.logger.Info("quote refresher started", zap.String("schedule", q.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	q.logger.Info("quote refresher stopped")
	return nil
}

// RefreshAll refreshes the quote of every loaded client and returns how many succeeded.
func (q *QuoteRefresher) RefreshAll(ctx context.Context) int {
	clients := q.registry.Clients()

	refreshed := 0
	for _, c := range clients {
		if err := c.Forum.RefreshQuote(ctx); err != nil {
			continue
		}
		refreshed++
	}

	q.logger.Info("daily quote refreshed",
		zap.Int("clients", len(clients)),
		zap.Int("refreshed", refreshed),
	)
	return refreshed
}
