// Package clinic implements the scheduling and booking core: schedule slots,
// the booking flow, the appointment lifecycle, and the notifications they
// produce. All multi-step mutations run inside a single transaction supplied
// by the DB so partial application is impossible.
package clinic

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	db     DB
	logger *slog.Logger

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

func NewService(db DB, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}
