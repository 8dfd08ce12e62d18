// Package search merges the video and article results of one topic query
// into a single view model.
package search

import (
	"context"
	"strings"
	"sync"

	"github.com/learnconnect/learnconnect.go/pkg/connection"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
	"github.com/learnconnect/learnconnect.go/pkg/models"
)

type Status int

const (
	NotSearched Status = iota
	Loading
	Done
	Failed
)

func (s Status) String() string {
	switch s {
	case NotSearched:
		return "NotSearched"
	case Loading:
		return "Loading"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return "InvalidStatus"
	}
}

// Model holds both result lists of one query. It is replaced as a whole.
type Model struct {
	Videos   []models.Video
	Articles []models.Article
}

type View struct {
	Status       Status
	Query        string
	Model        Model
	ErrorMessage string
}

// Empty reports a finished search that found nothing at all. A search that
// has not run yet is not empty.
func (v View) Empty() bool {
	return v.Status == Done && !v.HasVideos() && !v.HasArticles()
}

func (v View) HasVideos() bool {
	return len(v.Model.Videos) > 0
}

func (v View) HasArticles() bool {
	return len(v.Model.Articles) > 0
}

// SearchFunc queries the API for one topic.
type SearchFunc func(ctx context.Context, query string) (*models.SearchResults, error)

type Aggregator struct {
	search SearchFunc
	logger logger.Logger

	mu         sync.RWMutex
	view       View
	generation uint64
}

func New(search SearchFunc, l logger.Logger) *Aggregator {
	return &Aggregator{search: search, logger: logger.OrNop(l)}
}

func (a *Aggregator) View() View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.view
}

// Submit runs query. A blank query is rejected with constants.ErrEmptyQuery
// before any request. Otherwise the previous results are cleared, and only
// the most recently submitted query may write its outcome.
func (a *Aggregator) Submit(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return constants.ErrEmptyQuery
	}

	a.mu.Lock()
	a.generation++
	gen := a.generation
	a.view = View{Status: Loading, Query: query}
	a.mu.Unlock()

	res, err := a.search(ctx, query)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		a.logger.Debug("discarded stale search", "query", query)
		return constants.ErrSuperseded
	}

	if err != nil {
		a.logger.Warn("search failed", "query", query, "error", err.Error())
		a.view = View{Status: Failed, Query: query, ErrorMessage: connection.Message(err, "Search")}
		return err
	}

	var m Model
	if res != nil {
		m = Model{Videos: res.Videos, Articles: res.Articles}
	}
	a.view = View{Status: Done, Query: query, Model: m}
	return nil
}
