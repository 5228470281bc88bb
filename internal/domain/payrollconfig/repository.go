package payrollconfig

import (
	"context"
	"time"
)

type ConfigurationRepository interface {
	Create(ctx context.Context, cfg Configuration) (Configuration, error)
	List(ctx context.Context) ([]Configuration, error)
	// ActiveFor returns the configuration whose window contains the date;
	// when several overlap the newest effective_from wins. ErrConfigurationNotFound
	// when no row covers the date (callers fall back to Default).
	ActiveFor(ctx context.Context, date time.Time) (Configuration, error)
}
