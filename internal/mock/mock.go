// Package mock is an in-memory stand-in for the LearnConnect API. It has
// no transport and no authentication, so controllers can be exercised
// without a server.
package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/learnconnect/learnconnect.go/pkg/models"
)

var errNotFound = errors.New("not found")

// API implements views.API on top of plain slices. Every signed-in call
// acts as User.
type API struct {
	User models.User

	mu       sync.Mutex
	groups   []models.Group
	doubts   []models.Doubt
	nextID   int
	dashboard models.Dashboard
}

func Create() *API {
	return &API{User: models.User{ID: 1, Name: "abc", Email: "abc@abc.com"}, nextID: 100}
}

// Seed adds n groups and n doubts.
func (a *API) Seed(n int) *API {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < n; i++ {
		a.nextID++
		a.groups = append(a.groups, models.Group{ID: a.nextID, Title: "group", TopicID: 1})
		a.doubts = append(a.doubts, models.Doubt{ID: a.nextID, Topic: "Go", Title: "doubt", CreatedBy: a.User.ID})
	}
	return a
}

func (a *API) session() *models.LoginResponse {
	return &models.LoginResponse{AccessToken: "mock-token", TokenType: "bearer", User: a.User}
}

func (a *API) Login(context.Context, string, string) (*models.LoginResponse, error) {
	return a.session(), nil
}

func (a *API) Signup(context.Context, models.SignupRequest) (*models.LoginResponse, error) {
	return a.session(), nil
}

func (a *API) Dashboard(context.Context) (*models.Dashboard, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.dashboard
	return &d, nil
}

func (a *API) Search(_ context.Context, query string) (*models.SearchResults, error) {
	return &models.SearchResults{
		Videos:   []models.Video{{ID: query, Title: query}},
		Articles: []models.Article{{Title: query}},
	}, nil
}

func (a *API) ListGroups(context.Context) ([]models.Group, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Group(nil), a.groups...), nil
}

func (a *API) CreateGroup(_ context.Context, req models.CreateGroupRequest) (*models.Group, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	g := models.Group{ID: a.nextID, Title: req.Title, Description: req.Description, TopicID: req.TopicID,
		CreatedBy: a.User.ID, Members: []models.Member{{ID: a.User.ID, Name: a.User.Name}}}
	a.groups = append(a.groups, g)
	return &g, nil
}

func (a *API) GetGroup(_ context.Context, id int) (*models.Group, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, g := range a.groups {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, errNotFound
}

func (a *API) JoinGroup(_ context.Context, id int) (*models.Group, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.groups {
		if a.groups[i].ID == id {
			if !a.groups[i].HasMember(a.User.ID) {
				a.groups[i].Members = append(a.groups[i].Members, models.Member{ID: a.User.ID, Name: a.User.Name})
			}
			g := a.groups[i]
			return &g, nil
		}
	}
	return nil, errNotFound
}

func (a *API) LeaveGroup(context.Context, int) error {
	return nil
}

func (a *API) ShareResource(_ context.Context, _ int, req models.ShareResourceRequest) (*models.Resource, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	return &models.Resource{ID: a.nextID, Title: req.Title, URL: req.URL, ResourceType: req.ResourceType}, nil
}

func (a *API) ListDoubts(_ context.Context, topic string) ([]models.Doubt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Doubt, 0, len(a.doubts))
	for i := len(a.doubts) - 1; i >= 0; i-- {
		if topic == "" || a.doubts[i].Topic == topic {
			out = append(out, a.doubts[i])
		}
	}
	return out, nil
}

func (a *API) CreateDoubt(_ context.Context, req models.CreateDoubtRequest) (*models.Doubt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	d := models.Doubt{ID: a.nextID, Topic: req.Topic, Title: req.Title, Description: req.Description,
		CreatedBy: a.User.ID, CreatedByUser: &a.User}
	a.doubts = append(a.doubts, d)
	return &d, nil
}

func (a *API) DeleteDoubt(_ context.Context, id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, d := range a.doubts {
		if d.ID == id {
			a.doubts = append(a.doubts[:i], a.doubts[i+1:]...)
			return nil
		}
	}
	return errNotFound
}
