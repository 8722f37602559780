package learning

import (
	"context"
	"log/slog"
	"sync"

	"github.com/citelens/backend/weights"
)

// Learner accumulates rubric rewards and, once enough observations have
// been seen, asks its Strategy for a new AIO weight version and saves it.
// Observation is cheap and synchronous; version proposals happen inline on
// the crossing observation.
type Learner struct {
	store    *Store
	strategy Strategy
	logger   *slog.Logger

	mu           sync.Mutex
	observations int
	window       map[weights.RubricType]*rollingReward

	// MinObservations gates how many analyses must be seen between
	// proposals.
	MinObservations int
}

type rollingReward struct {
	sum   float64
	score float64
	count int
}

const defaultMinObservations = 10

func NewLearner(store *Store, strategy Strategy, logger *slog.Logger) *Learner {
	if strategy == nil {
		strategy = NudgeStrategy{}
	}
	return &Learner{
		store:           store,
		strategy:        strategy,
		logger:          logger,
		window:          make(map[weights.RubricType]*rollingReward),
		MinObservations: defaultMinObservations,
	}
}

// Observe folds one analysis' rubric rewards into the rolling window and
// proposes a new version when the window is full. Errors are logged, never
// returned: learning must not disturb the analysis path.
func (l *Learner) Observe(ctx context.Context, rewards map[weights.RubricType]Reward) {
	l.mu.Lock()
	for rubric, r := range rewards {
		w, ok := l.window[rubric]
		if !ok {
			w = &rollingReward{}
			l.window[rubric] = w
		}
		w.sum += r.Reward
		w.score += r.Score
		w.count++
	}
	l.observations++
	ready := l.observations >= l.MinObservations
	var averaged map[weights.RubricType]Reward
	if ready {
		averaged = make(map[weights.RubricType]Reward, len(l.window))
		for rubric, w := range l.window {
			averaged[rubric] = Reward{
				Score:  w.score / float64(w.count),
				Reward: w.sum / float64(w.count),
			}
		}
		l.observations = 0
		l.window = make(map[weights.RubricType]*rollingReward)
	}
	l.mu.Unlock()

	if !ready {
		return
	}
	l.propose(ctx, averaged)
}

func (l *Learner) propose(ctx context.Context, averaged map[weights.RubricType]Reward) {
	// Learned maps evolve from the blog preset; the resolver overlays them
	// onto whichever preset the content profile selects.
	current, ok := l.store.ActiveWeights(weights.RubricAIO)
	if !ok {
		current = weights.Defaults(weights.RubricAIO, false)
	}

	proposed, changed := l.strategy.Propose(current, averaged)
	if !changed {
		return
	}

	aio, hasAIO := averaged[weights.RubricAIO]
	meta := VersionMetadata{Source: "strategy", Description: "rolling-window proposal"}
	if hasAIO {
		meta.AvgReward = aio.Reward
	}
	if _, err := l.store.SaveVersion(ctx, weights.RubricAIO, proposed, meta); err != nil {
		if l.logger != nil {
			l.logger.Warn("saving proposed weight version failed", "error", err)
		}
		return
	}
	if l.logger != nil {
		l.logger.Info("activated new aio weight version", "avgReward", meta.AvgReward)
	}
}
