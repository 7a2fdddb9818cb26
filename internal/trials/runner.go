package trials

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/magefree/sbb-sim/internal/game"
	"github.com/magefree/sbb-sim/internal/game/rules"
	"github.com/magefree/sbb-sim/internal/game/watchers"
)

// Spec describes a batch of independent matches between two rosters.
type Spec struct {
	RosterA []game.RosterEntry
	RosterB []game.RosterEntry
	Trials  int
	Seed    int64 // trial i is seeded with Seed+i
	Workers int
}

// Summary aggregates the outcomes of a run from side A's point of view.
type Summary struct {
	ID        string
	Trials    int
	Seed      int64
	Wins      int
	Draws     int
	Losses    int
	Turns     int
	DeathsA   int
	DeathsB   int
	AttacksA  int
	AttacksB  int
	StartTime time.Time
	EndTime   time.Time
}

// Score returns the mean outcome: 1 for all wins, 0 for all losses.
func (s Summary) Score() float64 {
	if s.Trials == 0 {
		return 0
	}
	return (float64(s.Wins) + 0.5*float64(s.Draws)) / float64(s.Trials)
}

// MeanTurns returns the average number of attack turns per match.
func (s Summary) MeanTurns() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Turns) / float64(s.Trials)
}

func (s *Summary) record(res game.Result, died *watchers.MinionsDiedWatcher, attacks *watchers.AttacksWatcher) {
	s.Trials++
	switch res.Outcome {
	case game.Win:
		s.Wins++
	case game.Loss:
		s.Losses++
	default:
		s.Draws++
	}
	s.Turns += res.Turns
	s.DeathsA += died.GetCount(game.SideA)
	s.DeathsB += died.GetCount(game.SideB)
	s.AttacksA += attacks.GetCount(game.SideA)
	s.AttacksB += attacks.GetCount(game.SideB)
}

// Runner plays trial batches on a bounded pool of workers and keeps the
// summaries of finished runs.
type Runner struct {
	catalog game.TemplateSource
	runs    map[string]*Summary
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewRunner creates a runner that resolves species against catalog.
func NewRunner(catalog game.TemplateSource, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		catalog: catalog,
		runs:    make(map[string]*Summary),
		logger:  logger,
	}
}

// Run plays spec.Trials matches. Each match gets its own env, so workers
// share nothing but the read-only catalog. The first failing match cancels
// the rest and its error is returned.
func (r *Runner) Run(ctx context.Context, spec Spec) (Summary, error) {
	if spec.Trials <= 0 {
		return Summary{}, fmt.Errorf("trials must be positive, got %d", spec.Trials)
	}
	workers := spec.Workers
	if workers <= 0 {
		workers = 1
	}

	summary := Summary{
		ID:        uuid.New().String(),
		Seed:      spec.Seed,
		StartTime: time.Now(),
	}
	logger := r.logger.With(zap.String("run_id", summary.ID))
	logger.Info("trial run started",
		zap.Int("trials", spec.Trials),
		zap.Int("workers", workers),
		zap.Int64("seed", spec.Seed),
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < spec.Trials; i++ {
		if gctx.Err() != nil {
			break
		}
		trial := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, died, attacks, err := r.playTrial(spec, trial, logger)
			if err != nil {
				return err
			}
			mu.Lock()
			summary.record(res, died, attacks)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("trial run aborted", zap.Error(err))
		return Summary{}, fmt.Errorf("run %s: %w", summary.ID, err)
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, fmt.Errorf("run %s: %w", summary.ID, err)
	}

	summary.EndTime = time.Now()
	logger.Info("trial run finished",
		zap.Int("wins", summary.Wins),
		zap.Int("draws", summary.Draws),
		zap.Int("losses", summary.Losses),
		zap.Float64("score", summary.Score()),
		zap.Duration("elapsed", summary.EndTime.Sub(summary.StartTime)),
	)

	r.mu.Lock()
	stored := summary
	r.runs[summary.ID] = &stored
	r.mu.Unlock()

	return summary, nil
}

func (r *Runner) playTrial(spec Spec, trial int, logger *zap.Logger) (game.Result, *watchers.MinionsDiedWatcher, *watchers.AttacksWatcher, error) {
	seed := trialSeed(spec.Seed, trial)
	env := game.NewEnv(seed, logger.With(zap.Int("trial", trial)))

	died := watchers.NewMinionsDiedWatcher()
	attacks := watchers.NewAttacksWatcher()
	rules.Attach(env.Bus, died)
	rules.Attach(env.Bus, attacks)

	res, err := game.Play(env, r.catalog, spec.RosterA, spec.RosterB)
	if err != nil {
		return game.Result{}, nil, nil, fmt.Errorf("trial %d (seed %d): %w", trial, seed, err)
	}
	return res, died, attacks, nil
}

// trialSeed gives every trial of a batch its own seed. NewEnv uses seeds
// as-is, so no two trials replay the same match.
func trialSeed(base int64, trial int) int64 {
	return base + int64(trial)
}

// GetRun retrieves the summary of a finished run.
func (r *Runner) GetRun(id string) (Summary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.runs[id]
	if !ok {
		return Summary{}, false
	}
	return *s, true
}

// GetRunCount returns the number of finished runs.
func (r *Runner) GetRunCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}
