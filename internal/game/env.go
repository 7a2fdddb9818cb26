package game

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/magefree/sbb-sim/internal/game/rules"
)

// Env carries the per-match services shared by both boards: the single
// random source, the event bus and the logger. An Env must not be shared
// between matches that run concurrently.
type Env struct {
	Rng    *rand.Rand
	Bus    *rules.EventBus
	Logger *zap.Logger
}

// NewEnv creates an environment seeded for reproducible draws. Distinct
// seeds, 0 and negatives included, give distinct sequences.
func NewEnv(seed int64, logger *zap.Logger) *Env {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Env{
		Rng:    rand.New(rand.NewSource(seed)),
		Bus:    rules.NewEventBus(),
		Logger: logger,
	}
}

func (e *Env) logger() *zap.Logger {
	if e == nil || e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
