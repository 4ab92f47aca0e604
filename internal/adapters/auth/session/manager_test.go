package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	tok, exp, err := m.Issue("user-1", "a@b.it")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := m.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.it", claims.Email)
}

func TestManager_Verify_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	tok, _, err := m.Issue("user-1", "")
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = m.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestManager_Verify_WrongSecret(t *testing.T) {
	tok, _, err := NewManager("secret-a", time.Hour).Issue("user-1", "")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Verify(context.Background(), tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestManager_Verify_Empty(t *testing.T) {
	_, err := NewManager("secret", time.Hour).Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}
