package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionValid(t *testing.T) {
	assert.True(t, Session{Token: "t", User: User{ID: 1}}.Valid())
	assert.False(t, Session{Token: "t"}.Valid())
	assert.False(t, Session{User: User{ID: 1, Name: "a"}}.Valid())
	assert.False(t, Session{}.Valid())
}

func TestLoginResponseSession(t *testing.T) {
	resp := LoginResponse{AccessToken: "abc", TokenType: "bearer", User: User{ID: 7, Name: "Ada", Email: "ada@x.io"}}
	assert.Equal(t, Session{Token: "abc", User: User{ID: 7, Name: "Ada", Email: "ada@x.io"}}, resp.Session())
}

func TestGroupHasMember(t *testing.T) {
	g := Group{ID: 1, Members: []Member{{ID: 2}, {ID: 3}}}
	assert.True(t, g.HasMember(3))
	assert.False(t, g.HasMember(4))
}
