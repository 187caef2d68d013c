package jobs

import (
	"context"
	"log/slog"

	"github.com/jasonlvhit/gocron"

	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
	"github.com/obralink/cashbox-backend/internal/middleware"
)

// ReconciliationJob periodically replays the movement ledger against the
// stored account aggregates and logs any divergence. The job is report-only;
// corrections stay an explicit operator action.
type ReconciliationJob struct {
	reconciliationSvc portssvc.ReconciliationSvcFacade
	logger            *slog.Logger
	intervalHours     uint64
	scheduler         *gocron.Scheduler
}

// NewReconciliationJob creates the scheduled reconciliation job.
func NewReconciliationJob(reconciliationSvc portssvc.ReconciliationSvcFacade, logger *slog.Logger, intervalHours uint64) *ReconciliationJob {
	if intervalHours == 0 {
		intervalHours = 24
	}
	return &ReconciliationJob{
		reconciliationSvc: reconciliationSvc,
		logger:            logger.With(slog.String("job", "reconciliation")),
		intervalHours:     intervalHours,
	}
}

// Start schedules the job and runs the scheduler in a background goroutine.
func (j *ReconciliationJob) Start() {
	j.scheduler = gocron.NewScheduler()
	if err := j.scheduler.Every(j.intervalHours).Hours().Do(j.run); err != nil {
		j.logger.Error("Failed to schedule reconciliation job", slog.String("error", err.Error()))
		return
	}
	j.scheduler.Start()
	j.logger.Info("Reconciliation job scheduled", slog.Uint64("interval_hours", j.intervalHours))
}

// Stop clears the scheduler.
func (j *ReconciliationJob) Stop() {
	if j.scheduler != nil {
		j.scheduler.Clear()
	}
}

func (j *ReconciliationJob) run() {
	ctx := middleware.ContextWithLogger(context.Background(), j.logger)

	reports, err := j.reconciliationSvc.ReconcileAll(ctx)
	if err != nil {
		j.logger.Error("Reconciliation run failed", slog.String("error", err.Error()))
		return
	}

	inconsistent := 0
	for i := range reports {
		if !reports[i].Consistent() {
			inconsistent++
		}
	}
	j.logger.Info("Reconciliation run completed",
		slog.Int("accounts_checked", len(reports)),
		slog.Int("accounts_with_discrepancies", inconsistent))
}
