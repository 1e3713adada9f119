package projection

import (
	"context"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/platform/logger"
)

// LogProjection writes one line per committed event.
type LogProjection struct {
	Log *logger.Logger
}

func (LogProjection) Name() string { return "log" }

func (p LogProjection) Handle(_ context.Context, envs []domain.Envelope) error {
	for _, env := range envs {
		p.Log.Info("event committed",
			"tab_id", env.TabID.String(),
			"sequence", env.Sequence,
			"type", env.Type,
			"version", env.Version,
		)
	}
	return nil
}
