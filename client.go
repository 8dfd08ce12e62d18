package learnconnect

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/learnconnect/learnconnect.go/pkg/connection"
	httpconn "github.com/learnconnect/learnconnect.go/pkg/connection/http"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/models"
)

// Client provides typed access to the LearnConnect REST API.
//
// Client instances are safe for concurrent use by multiple goroutines.
type Client struct {
	conn connection.Connection
	// root serves the endpoints mounted outside the /api prefix.
	root connection.Connection
}

// New creates a Client from cfg. A base URL ending in /api is also used,
// without that suffix, for the health endpoint.
func New(cfg *connection.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{conn: httpconn.New(cfg)}
	c.root = c.conn
	if base, ok := strings.CutSuffix(cfg.BaseURL, "/api"); ok {
		rootCfg := *cfg
		rootCfg.BaseURL = base
		c.root = httpconn.New(&rootCfg)
	}
	return c, nil
}

// FromURLString creates a Client for the API at rawURL. tokens may be nil
// for a client that only logs in.
func FromURLString(rawURL string, tokens connection.TokenSource) (*Client, error) {
	cfg, err := connection.NewConfigFromString(rawURL)
	if err != nil {
		return nil, err
	}
	cfg.Tokens = tokens
	return New(cfg)
}

// FromConnection wraps an existing connection. Health requests go through
// conn as well.
func FromConnection(conn connection.Connection) *Client {
	return &Client{conn: conn, root: conn}
}

func (c *Client) send(ctx context.Context, req *connection.Request, out any) error {
	return c.conn.Do(ctx, req, out)
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var res models.LoginResponse
	err := c.send(ctx, &connection.Request{
		Op:     "Login",
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   models.LoginRequest{Email: email, Password: password},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Signup registers a new account and returns its first token.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.LoginResponse, error) {
	var res models.LoginResponse
	err := c.send(ctx, &connection.Request{
		Op:     "Sign up",
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Body:   req,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Me returns the profile behind the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.send(ctx, &connection.Request{Op: "Load profile", Method: http.MethodGet, Path: "/auth/me", Auth: true}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Health reports the server status, {"status": "ok"} when it is up.
func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var res map[string]string
	if err := c.root.Do(ctx, &connection.Request{Op: "Health check", Method: http.MethodGet, Path: "/health"}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var d models.Dashboard
	if err := c.send(ctx, &connection.Request{Op: "Load dashboard", Method: http.MethodGet, Path: "/dashboard", Auth: true}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Search queries videos and articles for a topic. The query is sent as a
// path segment.
func (c *Client) Search(ctx context.Context, query string) (*models.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, constants.ErrEmptyQuery
	}

	var res models.SearchResults
	err := c.send(ctx, &connection.Request{
		Op:     "Search",
		Method: http.MethodGet,
		Path:   "/search/" + url.PathEscape(query),
		Auth:   true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.send(ctx, &connection.Request{Op: "Load groups", Method: http.MethodGet, Path: "/groups", Auth: true}, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.Group, error) {
	var g models.Group
	err := c.send(ctx, &connection.Request{
		Op:     "Create group",
		Method: http.MethodPost,
		Path:   "/groups",
		Body:   req,
		Auth:   true,
	}, &g)
	if err != nil {
		return nil, err
	}
	return identified("Create group", &g)
}

func (c *Client) GetGroup(ctx context.Context, id int) (*models.Group, error) {
	path, err := groupPath(id)
	if err != nil {
		return nil, err
	}

	var g models.Group
	if err := c.send(ctx, &connection.Request{Op: "Load group", Method: http.MethodGet, Path: path, Auth: true}, &g); err != nil {
		return nil, err
	}
	return identified("Load group", &g)
}

// JoinGroup adds the current user to the group and returns the updated
// group.
func (c *Client) JoinGroup(ctx context.Context, id int) (*models.Group, error) {
	path, err := groupPath(id)
	if err != nil {
		return nil, err
	}

	var g models.Group
	if err := c.send(ctx, &connection.Request{Op: "Join group", Method: http.MethodPost, Path: path + "/join", Auth: true}, &g); err != nil {
		return nil, err
	}
	return identified("Join group", &g)
}

func (c *Client) LeaveGroup(ctx context.Context, id int) error {
	path, err := groupPath(id)
	if err != nil {
		return err
	}
	return c.send(ctx, &connection.Request{Op: "Leave group", Method: http.MethodPost, Path: path + "/leave", Auth: true}, nil)
}

// ShareResource posts a link to the group. Servers that answer with a
// confirmation message instead of the stored resource yield a nil
// resource and no error.
func (c *Client) ShareResource(ctx context.Context, groupID int, req models.ShareResourceRequest) (*models.Resource, error) {
	path, err := groupPath(groupID)
	if err != nil {
		return nil, err
	}

	var r models.Resource
	err = c.send(ctx, &connection.Request{
		Op:     "Share resource",
		Method: http.MethodPost,
		Path:   path + "/resources",
		Body:   req,
		Auth:   true,
	}, &r)
	if err != nil {
		return nil, err
	}
	if r.ID == 0 {
		return nil, nil
	}
	return &r, nil
}

// ListDoubts returns the doubts board, narrowed to topic when it is not
// empty.
func (c *Client) ListDoubts(ctx context.Context, topic string) ([]models.Doubt, error) {
	var q url.Values
	if topic = strings.TrimSpace(topic); topic != "" {
		q = url.Values{"topic": []string{topic}}
	}

	var doubts []models.Doubt
	err := c.send(ctx, &connection.Request{
		Op:     "Load doubts",
		Method: http.MethodGet,
		Path:   "/doubts",
		Query:  q,
		Auth:   true,
	}, &doubts)
	if err != nil {
		return nil, err
	}
	return doubts, nil
}

func (c *Client) CreateDoubt(ctx context.Context, req models.CreateDoubtRequest) (*models.Doubt, error) {
	var d models.Doubt
	err := c.send(ctx, &connection.Request{
		Op:     "Post doubt",
		Method: http.MethodPost,
		Path:   "/doubts",
		Body:   req,
		Auth:   true,
	}, &d)
	if err != nil {
		return nil, err
	}
	return identified("Post doubt", &d)
}

func (c *Client) DeleteDoubt(ctx context.Context, id int) error {
	if id <= 0 {
		return constants.ErrInvalidID
	}
	return c.send(ctx, &connection.Request{
		Op:     "Delete doubt",
		Method: http.MethodDelete,
		Path:   "/doubts/" + strconv.Itoa(id),
		Auth:   true,
	}, nil)
}

func groupPath(id int) (string, error) {
	if id <= 0 {
		return "", constants.ErrInvalidID
	}
	return "/groups/" + strconv.Itoa(id), nil
}

// identified rejects a 2xx body such as null or {} that decoded into an
// item without a key.
func identified[T models.Keyed](op string, item *T) (*T, error) {
	if (*item).Key() <= 0 {
		return nil, &connection.DecodeError{Op: op, Err: constants.ErrMissingID}
	}
	return item, nil
}
