package views

import (
	"context"

	"github.com/learnconnect/learnconnect.go/pkg/guard"
	"github.com/learnconnect/learnconnect.go/pkg/search"
)

// Search runs topic searches. Mounting only checks the session; nothing
// is fetched until the first query.
type Search struct {
	guard *guard.Guard
	agg   *search.Aggregator
}

func NewSearch(deps Deps) *Search {
	return &Search{
		guard: deps.guard(),
		agg:   search.New(deps.API.Search, deps.Logger),
	}
}

func (v *Search) Mount(ctx context.Context) error {
	_, err := v.guard.Enter(ctx)
	return err
}

func (v *Search) Submit(ctx context.Context, query string) error {
	return v.guard.Observe(ctx, v.agg.Submit(ctx, query))
}

func (v *Search) View() search.View {
	return v.agg.View()
}
