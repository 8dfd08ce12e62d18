package models

// Keyed is implemented by every entity that lives in a reconciled
// collection. Key returns the server-assigned identifier, unique within
// the collection.
type Keyed interface {
	Key() int
}

// User is the public profile returned by the auth endpoints.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Key() int { return u.ID }

// Session is the authenticated identity held by the client. It is either
// complete (token and user) or absent.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether s is a complete session.
func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != 0
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse is the body of a successful login or signup.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        User   `json:"user"`
}

// Session converts the response into the Session stored on the client.
func (r LoginResponse) Session() Session {
	return Session{Token: r.AccessToken, User: r.User}
}

type Topic struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (t Topic) Key() int { return t.ID }

type SearchHistory struct {
	Topic      string    `json:"topic"`
	SearchedAt Timestamp `json:"searched_at"`
}

// Member is a user that belongs to a group.
type Member struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (m Member) Key() int { return m.ID }

type ResourceType string

const (
	ResourceArticle ResourceType = "article"
	ResourceYouTube ResourceType = "youtube"
	ResourceCourse  ResourceType = "course"
	ResourceOther   ResourceType = "other"
)

// Resource is a link shared inside a group.
type Resource struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	URL          string       `json:"url"`
	ResourceType ResourceType `json:"resource_type"`
	SharedBy     int          `json:"shared_by,omitempty"`
}

func (r Resource) Key() int { return r.ID }

// Group is the study group aggregate: members and resources are owned by
// the group and only ever fetched with it.
type Group struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TopicID     int        `json:"topic_id"`
	CreatedBy   int        `json:"created_by,omitempty"`
	Members     []Member   `json:"members"`
	Resources   []Resource `json:"resources"`
}

func (g Group) Key() int { return g.ID }

// HasMember reports whether the user with id belongs to g.
func (g Group) HasMember(id int) bool {
	for _, m := range g.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

type CreateGroupRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	TopicID     int    `json:"topic_id" validate:"required,gt=0"`
}

type ShareResourceRequest struct {
	Title        string       `json:"title" validate:"required"`
	URL          string       `json:"url" validate:"required,url"`
	ResourceType ResourceType `json:"resource_type" validate:"required,oneof=article youtube course other"`
}

// Doubt is a question posted on the doubts board.
type Doubt struct {
	ID            int       `json:"id"`
	Topic         string    `json:"topic"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CreatedBy     int       `json:"created_by,omitempty"`
	CreatedAt     Timestamp `json:"created_at"`
	CreatedByUser *User     `json:"created_by_user,omitempty"`
}

func (d Doubt) Key() int { return d.ID }

type CreateDoubtRequest struct {
	Topic       string `json:"topic" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Dashboard is the personalised summary shown after login.
type Dashboard struct {
	RecentSearches    []SearchHistory `json:"recent_searches"`
	JoinedGroups      []Group         `json:"joined_groups"`
	RecommendedTopics []Topic         `json:"recommended_topics"`
}

type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
}

type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
}

// SearchResults is the body of GET /search/{query}.
type SearchResults struct {
	Videos   []Video   `json:"videos"`
	Articles []Article `json:"articles"`
}
