package auth

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	clock := clockwork.NewFakeClock()
	mgr := NewManager("secret", time.Hour, clock)

	token, err := mgr.Issue("user-1", "coach@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "coach@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	clock := clockwork.NewFakeClock()
	mgr := NewManager("secret", time.Hour, clock)

	token, err := mgr.Issue("user-1", "coach@example.com")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, err = mgr.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	clock := clockwork.NewFakeClock()
	token, err := NewManager("secret-a", time.Hour, clock).Issue("user-1", "coach@example.com")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour, clock).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	mgr := NewManager("secret", time.Hour, clockwork.NewFakeClock())
	_, err := mgr.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2hunter2"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
	assert.False(t, CheckPassword("", "hunter2hunter2"))
}
