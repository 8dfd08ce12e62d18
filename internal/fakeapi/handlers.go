package fakeapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnconnect/learnconnect.go/pkg/models"
)

var errInvalidToken = errors.New("invalid token")

// IssueToken signs an access token for email, valid for d.
func (s *Server) IssueToken(email string, d time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(d).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errInvalidToken
	}
	return sub, nil
}

// currentUser resolves the bearer token, or the token query parameter
// that the profile endpoint also accepts.
func (s *Server) currentUser(r *http.Request) (models.User, bool) {
	tokenStr := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		tokenStr = strings.TrimPrefix(h, "Bearer ")
	} else {
		tokenStr = r.URL.Query().Get("token")
	}
	if tokenStr == "" {
		return models.User{}, false
	}

	email, err := s.parseToken(tokenStr)
	if err != nil {
		return models.User{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.accounts[email]
	if !ok {
		return models.User{}, false
	}
	return a.user, true
}

func (s *Server) authed(next func(http.ResponseWriter, *http.Request, models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.currentUser(r)
		if !ok {
			s.respondError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next(w, r, u)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := s.codec.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "Invalid request payload")
		return false
	}
	return true
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) tokenResponse(w http.ResponseWriter, u models.User) {
	token, err := s.IssueToken(u.Email, s.tokenExpires)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.LoginResponse{AccessToken: token, TokenType: "bearer", User: u})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "name, email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.data.accounts[req.Email]; exists {
		s.mu.Unlock()
		s.respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	u := s.data.addUser(req.Name, req.Email, req.Password)
	s.mu.Unlock()

	s.tokenResponse(w, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	a, ok := s.data.accounts[req.Email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(a.hash, []byte(req.Password)) != nil {
		s.respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.tokenResponse(w, a.user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	s.respondJSON(w, http.StatusOK, u)
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request, u models.User) {
	s.mu.Lock()
	dash := s.data.dashboard(u)
	s.mu.Unlock()
	s.respondJSON(w, http.StatusOK, dash)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, u models.User) {
	topic := mux.Vars(r)["topic"]
	s.mu.Lock()
	res := s.data.search(u.ID, topic)
	s.mu.Unlock()
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleListGroups(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	groups := make([]models.Group, 0, len(s.data.groups))
	for _, g := range s.data.sortedGroups() {
		groups = append(groups, s.data.view(g))
	}
	s.mu.Unlock()
	s.respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request, u models.User) {
	var req models.CreateGroupRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.topicByID(req.TopicID); !ok {
		s.respondError(w, http.StatusNotFound, "Topic not found")
		return
	}
	g := s.data.addGroup(u.ID, req.Title, req.Description, req.TopicID)
	s.respondJSON(w, http.StatusOK, s.data.view(g))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data.groups[pathID(r)]
	if !ok {
		s.respondError(w, http.StatusNotFound, "Group not found")
		return
	}
	s.respondJSON(w, http.StatusOK, s.data.view(g))
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request, u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data.groups[pathID(r)]
	if !ok {
		s.respondError(w, http.StatusNotFound, "Group not found")
		return
	}
	if g.hasMember(u.ID) {
		s.respondError(w, http.StatusBadRequest, "Already a member of this group")
		return
	}
	g.memberIDs = append(g.memberIDs, u.ID)
	s.respondJSON(w, http.StatusOK, s.data.view(g))
}

func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request, u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data.groups[pathID(r)]
	if !ok {
		s.respondError(w, http.StatusNotFound, "Group not found")
		return
	}
	if !g.hasMember(u.ID) {
		s.respondError(w, http.StatusBadRequest, "Not a member of this group")
		return
	}
	g.removeMember(u.ID)
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Left group successfully"})
}

func (s *Server) handleShareResource(w http.ResponseWriter, r *http.Request, u models.User) {
	var req models.ShareResourceRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	g, ok := s.data.groups[id]
	if !ok {
		s.respondError(w, http.StatusNotFound, "Group not found")
		return
	}
	if !g.hasMember(u.ID) {
		s.respondError(w, http.StatusForbidden, "Only group members can add resources")
		return
	}
	s.data.addResource(id, u.ID, req)
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Resource added successfully"})
}

func (s *Server) handleListDoubts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doubts := s.data.doubtsNewestFirst(r.URL.Query().Get("topic"))
	s.mu.Unlock()
	s.respondJSON(w, http.StatusOK, doubts)
}

func (s *Server) handleCreateDoubt(w http.ResponseWriter, r *http.Request, u models.User) {
	var req models.CreateDoubtRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Topic == "" || req.Title == "" || req.Description == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "topic, title and description are required")
		return
	}

	s.mu.Lock()
	doubt := s.data.addDoubt(u.ID, req)
	s.mu.Unlock()
	s.respondJSON(w, http.StatusOK, doubt)
}

func (s *Server) handleDeleteDoubt(w http.ResponseWriter, r *http.Request, u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	doubt, ok := s.data.doubts[id]
	if !ok {
		s.respondError(w, http.StatusNotFound, "Doubt not found")
		return
	}
	if doubt.CreatedBy != u.ID {
		s.respondError(w, http.StatusForbidden, "Not authorized to delete this doubt")
		return
	}
	delete(s.data.doubts, id)
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Doubt deleted successfully"})
}
