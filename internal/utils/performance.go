// Package utils provides small shared helpers.
package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// slowThreshold marks background operations worth flagging in the logs.
const slowThreshold = 30 * time.Second

// Timer measures the duration of an operation and logs it on Stop.
type Timer struct {
	log   zerolog.Logger
	op    string
	start time.Time
}

// NewTimer starts timing the named operation.
func NewTimer(log zerolog.Logger, op string) *Timer {
	return &Timer{
		log:   log,
		op:    op,
		start: time.Now(),
	}
}

// Stop logs the elapsed time and returns it. Slow operations are
// logged at warn level so they stand out during a cron run.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)

	event := t.log.Debug()
	if elapsed > slowThreshold {
		event = t.log.Warn()
	}
	event.Str("operation", t.op).Dur("duration", elapsed).Msg("Operation completed")

	return elapsed
}
