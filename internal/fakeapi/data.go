package fakeapi

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/learnconnect/learnconnect.go/pkg/models"
)

// Seed account credentials.
const (
	SeedEmail    = "abc@abc.com"
	SeedPassword = "abc123"
)

// passwordCost keeps the fake cheap to start; it never holds real secrets.
const passwordCost = bcrypt.MinCost

type account struct {
	user models.User
	hash []byte
}

type searchEntry struct {
	userID int
	topic  string
	at     time.Time
}

type group struct {
	models.Group
	memberIDs []int
}

type dataset struct {
	accounts map[string]*account // by email
	topics   []models.Topic
	groups   map[int]*group
	doubts   map[int]models.Doubt
	searches []searchEntry

	searchResults map[string]models.SearchResults

	nextUser, nextTopic, nextGroup, nextDoubt, nextResource int
}

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		panic(err)
	}
	return hash
}

func seed() *dataset {
	d := &dataset{
		accounts:      make(map[string]*account),
		groups:        make(map[int]*group),
		doubts:        make(map[int]models.Doubt),
		searchResults: make(map[string]models.SearchResults),
	}

	demo := d.addUser("abc", SeedEmail, SeedPassword)
	mentor := d.addUser("Maya", "maya@learnconnect.dev", "maya-pass")

	for _, t := range []models.Topic{
		{Name: "React", Description: "Components, hooks and state"},
		{Name: "Python", Description: "From scripts to services"},
		{Name: "Go", Description: "Concurrency and tooling"},
		{Name: "Machine Learning"},
		{Name: "Databases"},
		{Name: "Algorithms"},
	} {
		d.addTopic(t.Name, t.Description)
	}

	d.addGroup(mentor.ID, "React Study Circle", "Weekly hooks deep dives", 1)
	d.addGroup(mentor.ID, "Pythonistas", "Pair programming in Python", 2)
	g := d.addGroup(demo.ID, "Gophers", "Reading Effective Go together", 3)
	d.addResource(g.ID, demo.ID, models.ShareResourceRequest{
		Title: "Effective Go", URL: "https://go.dev/doc/effective_go", ResourceType: models.ResourceArticle,
	})
	d.addGroup(mentor.ID, "ML Reading Group", "One paper a week", 4)
	d.addGroup(mentor.ID, "SQL Practice", "Queries and indexes", 5)

	d.searches = append(d.searches,
		searchEntry{userID: demo.ID, topic: "React", at: time.Now().Add(-2 * time.Hour)},
		searchEntry{userID: demo.ID, topic: "Go", at: time.Now().Add(-time.Hour)},
	)

	d.addDoubt(mentor.ID, models.CreateDoubtRequest{
		Topic: "Python", Title: "Generators vs lists?", Description: "When does laziness pay off?",
	})
	return d
}

func (d *dataset) addUser(name, email, password string) models.User {
	d.nextUser++
	u := models.User{ID: d.nextUser, Name: name, Email: email}
	d.accounts[email] = &account{user: u, hash: mustHash(password)}
	return u
}

func (d *dataset) userByID(id int) (models.User, bool) {
	for _, a := range d.accounts {
		if a.user.ID == id {
			return a.user, true
		}
	}
	return models.User{}, false
}

func (d *dataset) addTopic(name, description string) models.Topic {
	d.nextTopic++
	t := models.Topic{ID: d.nextTopic, Name: name, Description: description}
	d.topics = append(d.topics, t)
	return t
}

func (d *dataset) topicByID(id int) (models.Topic, bool) {
	for _, t := range d.topics {
		if t.ID == id {
			return t, true
		}
	}
	return models.Topic{}, false
}

func (d *dataset) topicByName(name string) (models.Topic, bool) {
	for _, t := range d.topics {
		if t.Name == name {
			return t, true
		}
	}
	return models.Topic{}, false
}

func (d *dataset) addGroup(creator int, title, description string, topicID int) *group {
	d.nextGroup++
	g := &group{
		Group: models.Group{
			ID:          d.nextGroup,
			Title:       title,
			Description: description,
			TopicID:     topicID,
			CreatedBy:   creator,
			Resources:   []models.Resource{},
		},
		memberIDs: []int{creator},
	}
	d.groups[g.ID] = g
	return g
}

func (d *dataset) addResource(groupID, userID int, req models.ShareResourceRequest) models.Resource {
	d.nextResource++
	r := models.Resource{
		ID:           d.nextResource,
		Title:        req.Title,
		URL:          req.URL,
		ResourceType: req.ResourceType,
		SharedBy:     userID,
	}
	g := d.groups[groupID]
	g.Resources = append(g.Resources, r)
	return r
}

// view renders g with its members resolved.
func (d *dataset) view(g *group) models.Group {
	out := g.Group
	out.Members = make([]models.Member, 0, len(g.memberIDs))
	for _, id := range g.memberIDs {
		if u, ok := d.userByID(id); ok {
			out.Members = append(out.Members, models.Member{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	out.Resources = append([]models.Resource{}, g.Resources...)
	return out
}

func (d *dataset) sortedGroups() []*group {
	out := make([]*group, 0, len(d.groups))
	for _, g := range d.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *dataset) addDoubt(userID int, req models.CreateDoubtRequest) models.Doubt {
	d.nextDoubt++
	doubt := models.Doubt{
		ID:          d.nextDoubt,
		Topic:       req.Topic,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   userID,
		CreatedAt:   models.Timestamp{Time: time.Now().UTC()},
	}
	if u, ok := d.userByID(userID); ok {
		doubt.CreatedByUser = &u
	}
	d.doubts[doubt.ID] = doubt
	return doubt
}

// doubtsNewestFirst lists doubts, filtered by topic when it is not empty.
func (d *dataset) doubtsNewestFirst(topic string) []models.Doubt {
	out := make([]models.Doubt, 0, len(d.doubts))
	for _, doubt := range d.doubts {
		if topic == "" || doubt.Topic == topic {
			out = append(out, doubt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (d *dataset) search(userID int, topic string) models.SearchResults {
	d.searches = append(d.searches, searchEntry{userID: userID, topic: topic, at: time.Now()})
	if _, ok := d.topicByName(topic); !ok {
		d.addTopic(topic, "")
	}

	if res, ok := d.searchResults[topic]; ok {
		return res
	}
	return sampleResults(topic)
}

func sampleResults(topic string) models.SearchResults {
	res := models.SearchResults{}
	for i := 0; i < 3; i++ {
		res.Videos = append(res.Videos, models.Video{
			ID:          fmt.Sprintf("placeholder_%d", i),
			Title:       fmt.Sprintf("Sample %s Video %d", topic, i+1),
			Description: fmt.Sprintf("This is a sample video about %s.", topic),
			Thumbnail:   "https://via.placeholder.com/320x180?text=YouTube",
			URL:         "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		})
		res.Articles = append(res.Articles, models.Article{
			Title:       fmt.Sprintf("Sample %s Article %d", topic, i+1),
			Description: fmt.Sprintf("This is a sample article about %s.", topic),
			URL:         fmt.Sprintf("https://example.com/article-%d", i+1),
			Source:      "Example Source",
		})
	}
	return res
}

func (d *dataset) dashboard(u models.User) models.Dashboard {
	dash := models.Dashboard{
		RecentSearches:    []models.SearchHistory{},
		JoinedGroups:      []models.Group{},
		RecommendedTopics: []models.Topic{},
	}

	var mine []searchEntry
	for _, e := range d.searches {
		if e.userID == u.ID {
			mine = append(mine, e)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].at.After(mine[j].at) })
	for i, e := range mine {
		if i == 10 {
			break
		}
		dash.RecentSearches = append(dash.RecentSearches, models.SearchHistory{
			Topic:      e.topic,
			SearchedAt: models.Timestamp{Time: e.at.UTC()},
		})
	}

	for _, g := range d.sortedGroups() {
		if g.hasMember(u.ID) {
			dash.JoinedGroups = append(dash.JoinedGroups, d.view(g))
		}
	}

	for _, t := range d.topics {
		if len(dash.RecommendedTopics) == 5 {
			break
		}
		dash.RecommendedTopics = append(dash.RecommendedTopics, t)
	}
	return dash
}

func (g *group) hasMember(id int) bool {
	for _, m := range g.memberIDs {
		if m == id {
			return true
		}
	}
	return false
}

func (g *group) removeMember(id int) {
	out := g.memberIDs[:0]
	for _, m := range g.memberIDs {
		if m != id {
			out = append(out, m)
		}
	}
	g.memberIDs = out
}
