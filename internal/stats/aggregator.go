// Package stats assembles the statistics page from several API reports.
package stats

import (
	"context"
	"log"

	"github.com/sourcegraph/conc/pool"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

// Source is the subset of the API client the aggregator reads from.
type Source interface {
	StatsOverview(ctx context.Context) (*entities.StatsOverview, error)
	TopStudents(ctx context.Context) ([]entities.TopStudent, error)
	TopBooks(ctx context.Context) ([]entities.TopBook, error)
	ListLoans(ctx context.Context, filter library.LoanFilter) ([]entities.LoanView, error)
}

// Summary is the merged view model of the statistics page.
type Summary struct {
	TotalEtudiants    int64
	TotalLivres       int64
	TotalEmprunts     int64
	EmpruntsEnCours   int64
	EmpruntsTermines  int64
	EmpruntsEnRetard  int
	LivresDisponibles int64
	TauxEmprunt       float64
	TopEtudiants      []entities.TopStudent
	TopLivres         []entities.TopBook
}

type Aggregator struct {
	source Source
}

func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Load fetches the overview and both top lists concurrently. The first
// failure cancels the others and is returned with no partial summary.
// The overdue count is fetched afterwards; if that fails it stays 0.
func (a *Aggregator) Load(ctx context.Context) (*Summary, error) {
	var (
		overview    *entities.StatsOverview
		topStudents []entities.TopStudent
		topBooks    []entities.TopBook
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		overview, err = a.source.StatsOverview(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		topStudents, err = a.source.TopStudents(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		topBooks, err = a.source.TopBooks(ctx)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalEtudiants:    overview.Totaux.Etudiants,
		TotalLivres:       overview.Totaux.Livres,
		TotalEmprunts:     overview.Totaux.Emprunts,
		EmpruntsEnCours:   overview.Emprunts.EnCours,
		EmpruntsTermines:  overview.Emprunts.Termines,
		LivresDisponibles: overview.LivresDisponibles,
		TauxEmprunt:       overview.TauxEmprunt,
		TopEtudiants:      topStudents,
		TopLivres:         topBooks,
	}

	overdue, err := a.source.ListLoans(ctx, library.FilterOverdue)
	if err != nil {
		log.Printf("[STATS] Failed to load overdue loans: %v", err)
		return summary, nil
	}
	summary.EmpruntsEnRetard = len(overdue)
	return summary, nil
}
