package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/eyaachaabene/agrimarket/internal/clientdata"
	"github.com/eyaachaabene/agrimarket/internal/database"
	"github.com/eyaachaabene/agrimarket/internal/utils"
)

// MaintenanceJob keeps the databases tidy: it drops expired feed cache
// rows and checkpoints the WAL so the files do not grow unbounded.
type MaintenanceJob struct {
	log       zerolog.Logger
	cache     *clientdata.Repository
	databases map[string]*database.DB
}

// NewMaintenanceJob creates a new MaintenanceJob
func NewMaintenanceJob(cache *clientdata.Repository, databases map[string]*database.DB) *MaintenanceJob {
	return &MaintenanceJob{
		log:       zerolog.Nop(),
		cache:     cache,
		databases: databases,
	}
}

// SetLogger sets the logger for the job
func (j *MaintenanceJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run executes one maintenance pass.
func (j *MaintenanceJob) Run(ctx context.Context) error {
	timer := utils.NewTimer(j.log, j.Name())
	defer timer.Stop()

	for _, table := range clientdata.AllTables {
		if err := ctx.Err(); err != nil {
			return err
		}

		deleted, err := j.cache.DeleteExpired(table)
		if err != nil {
			return fmt.Errorf("failed to delete expired rows from %s: %w", table, err)
		}
		if deleted > 0 {
			j.log.Debug().Str("table", table).Int64("deleted", deleted).Msg("Expired cache rows removed")
		}
	}

	// Checkpoint failures are not fatal; the next run retries.
	for name, db := range j.databases {
		if _, err := db.Conn().Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			j.log.Warn().Str("database", name).Err(err).Msg("WAL checkpoint failed")
		}
	}

	return nil
}
