// Package credential holds the client's session: an opaque bearer token
// and the cached profile of the user it belongs to.
//
// A Store persists the pair through a Backend so that it survives process
// restarts. Reads fail closed: anything malformed, partial or tampered with
// is reported as "no session".
package credential

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/securecookie"

	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
	"github.com/learnconnect/learnconnect.go/pkg/models"
)

type Option func(*Store)

func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		s.logger = logger.OrNop(l)
	}
}

// WithSecureCookie signs stored values with hashKey and, when blockKey is
// non-empty, encrypts them. Values that fail verification read as absent.
func WithSecureCookie(hashKey, blockKey []byte) Option {
	return func(s *Store) {
		if len(blockKey) == 0 {
			blockKey = nil
		}
		sc := securecookie.New(hashKey, blockKey)
		// expiry belongs to the server, not the local copy
		sc.MaxAge(0)
		s.secure = sc
	}
}

// Store is the process-wide session holder. It opens its Backend lazily
// on first use and caches the decoded session in memory.
type Store struct {
	open    func() (Backend, error)
	once    sync.Once
	backend Backend
	openErr error

	mu      sync.RWMutex
	loaded  bool
	session *models.Session

	secure *securecookie.SecureCookie
	logger logger.Logger
}

// New creates a Store whose Backend is produced by open on first use.
func New(open func() (Backend, error), opts ...Option) *Store {
	s := &Store{open: open, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewWithBackend creates a Store over an already opened Backend.
func NewWithBackend(b Backend, opts ...Option) *Store {
	return New(func() (Backend, error) { return b, nil }, opts...)
}

// NewBolt creates a Store persisted in the bolt file at path.
func NewBolt(path string, opts ...Option) *Store {
	return New(func() (Backend, error) { return NewBoltBackend(path) }, opts...)
}

func (s *Store) init() error {
	s.once.Do(func() {
		s.backend, s.openErr = s.open()
		if s.openErr != nil {
			s.logger.Error("cannot open credential storage", "error", s.openErr.Error())
		}
	})
	return s.openErr
}

// Session returns the stored session. The second result is false when no
// complete, readable session exists.
func (s *Store) Session(ctx context.Context) (models.Session, bool) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		if s.session == nil {
			return models.Session{}, false
		}
		return *s.session, true
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.session = s.read()
		s.loaded = true
	}
	if s.session == nil {
		return models.Session{}, false
	}
	return *s.session, true
}

// Token implements connection.TokenSource.
func (s *Store) Token(ctx context.Context) (string, bool) {
	sess, ok := s.Session(ctx)
	if !ok {
		return "", false
	}
	return sess.Token, true
}

// SetSession persists token and user together, replacing any prior session.
func (s *Store) SetSession(ctx context.Context, sess models.Session) error {
	if !sess.Valid() {
		return constants.ErrInvalidSession
	}
	if err := s.init(); err != nil {
		return err
	}

	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	token, err := s.encode(constants.AuthTokenKey, []byte(sess.Token))
	if err != nil {
		return err
	}
	if user, err = s.encode(constants.UserKey, user); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Put(map[string][]byte{
		constants.AuthTokenKey: token,
		constants.UserKey:      user,
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.session = &sess
	s.loaded = true
	s.logger.Debug("session stored", "user_id", sess.User.ID)
	return nil
}

// ClearSession removes the stored session. Clearing an absent session is a
// no-op.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.init(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Delete(constants.AuthTokenKey, constants.UserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.session = nil
	s.loaded = true
	s.logger.Debug("session cleared")
	return nil
}

// Close releases the Backend if it was opened.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// read loads the session from the backend. Callers hold s.mu.
func (s *Store) read() *models.Session {
	if err := s.init(); err != nil {
		return nil
	}

	rawToken, tokenErr := s.backend.Get(constants.AuthTokenKey)
	rawUser, userErr := s.backend.Get(constants.UserKey)
	if errors.Is(tokenErr, ErrNotFound) && errors.Is(userErr, ErrNotFound) {
		return nil
	}
	if tokenErr != nil || userErr != nil {
		s.discard("partial session", tokenErr, userErr)
		return nil
	}

	token, err := s.decode(constants.AuthTokenKey, rawToken)
	if err != nil {
		s.discard("unreadable token", err)
		return nil
	}
	userData, err := s.decode(constants.UserKey, rawUser)
	if err != nil {
		s.discard("unreadable user", err)
		return nil
	}

	var user models.User
	if err := json.Unmarshal(userData, &user); err != nil {
		s.discard("malformed user", err)
		return nil
	}

	sess := models.Session{Token: string(token), User: user}
	if !sess.Valid() {
		s.discard("incomplete session", nil)
		return nil
	}
	return &sess
}

// discard drops whatever is stored so a broken session does not linger.
func (s *Store) discard(reason string, errs ...error) {
	s.logger.Warn("ignoring stored session", "reason", reason, "error", errors.Join(errs...))
	if err := s.backend.Delete(constants.AuthTokenKey, constants.UserKey); err != nil {
		s.logger.Warn("cannot remove stored session", "error", err.Error())
	}
}

func (s *Store) encode(name string, value []byte) ([]byte, error) {
	if s.secure == nil {
		return value, nil
	}
	encoded, err := s.secure.Encode(name, value)
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", name, err)
	}
	return []byte(encoded), nil
}

func (s *Store) decode(name string, value []byte) ([]byte, error) {
	if s.secure == nil {
		return value, nil
	}
	var decoded []byte
	if err := s.secure.Decode(name, string(value), &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}
