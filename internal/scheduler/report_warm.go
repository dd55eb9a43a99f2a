package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ReportWarmer recomputes cached reports.
type ReportWarmer interface {
	WarmAll(ctx context.Context) (int, error)
}

// ReportWarmJob refreshes every user's cached CGT report.
type ReportWarmJob struct {
	reports ReportWarmer
	log     zerolog.Logger
}

// NewReportWarmJob creates a ReportWarmJob.
func NewReportWarmJob(reports ReportWarmer, log zerolog.Logger) *ReportWarmJob {
	return &ReportWarmJob{
		reports: reports,
		log:     log.With().Str("job", "report_warm").Logger(),
	}
}

func (j *ReportWarmJob) Name() string { return "report_warm" }

func (j *ReportWarmJob) Run(ctx context.Context) error {
	start := time.Now()
	warmed, err := j.reports.WarmAll(ctx)
	if err != nil {
		return err
	}
	j.log.Info().Int("reports", warmed).Dur("duration", time.Since(start)).Msg("CGT reports warmed")
	return nil
}
