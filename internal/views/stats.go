package views

import (
	"context"

	"github.com/mrlokans/library/internal/stats"
)

type SummaryLoader interface {
	Load(ctx context.Context) (*stats.Summary, error)
}

// StatsScreen shows either the whole summary or a single error.
type StatsScreen struct {
	loader SummaryLoader
	State  State[*stats.Summary]
}

func NewStatsScreen(loader SummaryLoader) *StatsScreen {
	return &StatsScreen{loader: loader}
}

func (s *StatsScreen) Load(ctx context.Context) {
	s.State = s.State.Loading()
	summary, err := s.loader.Load(ctx)
	if err != nil {
		s.State = s.State.Failed(err.Error())
		return
	}
	s.State = s.State.Loaded(summary)
}

// Dismiss clears the error so the page can be retried.
func (s *StatsScreen) Dismiss() {
	if s.State.Status == StatusError {
		s.State = State[*stats.Summary]{}
	}
}
