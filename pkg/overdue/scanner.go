package overdue

import (
	"context"
	"fmt"

	"github.com/taskhub-io/taskhub/pkg/observability"
	"github.com/taskhub-io/taskhub/pkg/storage"
)

// Scanner flags todos whose deadline has passed.
type Scanner struct {
	store   *storage.Store
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewScanner creates a scanner over the given store. The metrics
// parameter may be nil when no gauge should be maintained (the
// standalone scanner binary runs without a metrics endpoint).
func NewScanner(store *storage.Store, logger *observability.Logger, metrics *observability.Metrics) *Scanner {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Scanner{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Run performs a single scan pass: every incomplete todo whose deadline
// has passed and that is not yet flagged gets its overdue_at stamped.
// Each newly flagged todo is logged at warning level. Returns the number
// of todos flagged by this pass.
func (s *Scanner) Run(ctx context.Context) (int, error) {
	flagged, err := s.store.FlagOverdueTodos(ctx)
	if err != nil {
		return 0, fmt.Errorf("overdue scan failed: %w", err)
	}

	for _, t := range flagged {
		s.logger.WithFields(map[string]interface{}{
			"todo_id":  t.ID,
			"user_id":  t.UserID,
			"deadline": t.Deadline,
		}).Warnf("todo %d is overdue", t.ID)
	}

	if s.metrics != nil {
		count, err := s.store.CountOverdueTodos(ctx)
		if err != nil {
			s.logger.WithError(err).Error("failed to count overdue todos")
		} else {
			s.metrics.TodosOverdue.Set(float64(count))
		}
	}

	if len(flagged) > 0 {
		s.logger.Infof("overdue scan flagged %d todos", len(flagged))
	}
	return len(flagged), nil
}
