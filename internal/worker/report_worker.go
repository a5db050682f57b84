package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/roomreserve/internal/observability/metrics"
	"github.com/yourorg/roomreserve/internal/service"
)

// ReportWorker periodically regenerates the performance report so the
// health score gauge stays fresh without anyone hitting the report
// endpoint.
type ReportWorker struct {
	reports  *service.ReportService
	logger   *slog.Logger
	interval time.Duration
}

// NewReportWorker creates a new report worker
func NewReportWorker(reports *service.ReportService, logger *slog.Logger, interval time.Duration) *ReportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReportWorker{
		reports:  reports,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the report loop. One report is generated immediately so the
// gauge is populated right after boot.
func (w *ReportWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("report worker started", slog.Duration("interval", w.interval))

	w.run()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("report worker stopped")
			return
		case <-ticker.C:
			w.run()
		}
	}
}

func (w *ReportWorker) run() {
	report, err := w.reports.WeeklyReport()
	if err != nil {
		metrics.ObserveReportRun("error")
		w.logger.Error("failed to generate report", slog.String("error", err.Error()))
		return
	}

	metrics.ObserveReportRun("ok")
	metrics.SetHealthScore(report.Health.TotalScore)

	w.logger.Info("performance report generated",
		slog.Int("health_score", report.Health.TotalScore),
		slog.String("health_status", report.Health.Status),
		slog.Int("new_bookings", report.Bookings.NewBookings),
		slog.Float64("period_revenue", report.Revenue.TotalRevenue),
	)
}
