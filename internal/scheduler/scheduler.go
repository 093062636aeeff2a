package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/superpos/terminal-api/internal/application/service"
	"github.com/superpos/terminal-api/internal/config"
)

// Scheduler runs the periodic sales summary job.
type Scheduler struct {
	cron     *cron.Cron
	salesSvc *service.SalesService
	cfg      config.SchedulerConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SchedulerConfig, salesSvc *service.SalesService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:     cron.New(),
		salesSvc: salesSvc,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("summary_spec", s.cfg.SummarySpec))

	if _, err := s.cron.AddFunc(s.cfg.SummarySpec, s.logSalesSummary); err != nil {
		s.logger.Error("failed to schedule sales summary", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) logSalesSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	summary, err := s.salesSvc.Summary(ctx)
	if err != nil {
		s.logger.Error("failed to generate sales summary", zap.Error(err))
		return
	}

	s.logger.Info("sales summary",
		zap.Int("sale_count", summary.SaleCount),
		zap.Float64("gross_revenue", summary.GrossRevenue),
		zap.Float64("average_ticket", summary.AverageTicket),
		zap.Int("items_sold", summary.ItemsSold),
		zap.Any("revenue_by_method", summary.RevenueByMethod),
	)
}
