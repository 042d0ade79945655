// Package health reports whether the service and its dependencies are usable.
package health

import (
	"context"
	"database/sql"

	"careerprep-backend/internal/shared/storage/db"
)

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Backend  string `json:"backend"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
	// BreakerState reports the backend circuit ("closed", "half-open", "open").
	BreakerState func() string
}

// NewService constructs a new health service.
func NewService(database *sql.DB, breakerState func() string) *Service {
	return &Service{DB: database, BreakerState: breakerState}
}

// Status checks the database and the backend circuit. An open circuit degrades
// the backend but does not fail the check; a database that cannot be pinged does.
func (s *Service) Status(ctx context.Context) Status {
	out := Status{OK: true, Database: "memory", Backend: "unconfigured"}
	if s.DB != nil {
		out.Database = "ok"
		if err := db.Ping(ctx, s.DB); err != nil {
			out.Database = "unreachable"
			out.OK = false
		}
	}
	if s.BreakerState != nil {
		out.Backend = s.BreakerState()
	}
	return out
}
