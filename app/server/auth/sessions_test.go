package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessions(t *testing.T) {
	st := testSessionStore(t)
	ctx := t.Context()

	require.NoError(t, st.CreateSession(ctx, "t1", "alice", time.Now().Add(time.Hour)))
	require.NoError(t, st.CreateSession(ctx, "t2", "alice", time.Now().Add(time.Hour)))
	require.NoError(t, st.CreateSession(ctx, "t3", "bob", time.Now().Add(time.Hour)))

	user, exp, err := st.GetSession(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	_, _, err = st.GetSession(ctx, "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)

	t.Run("create overwrites existing token", func(t *testing.T) {
		require.NoError(t, st.CreateSession(ctx, "t9", "alice", time.Now().Add(time.Hour)))
		require.NoError(t, st.CreateSession(ctx, "t9", "carol", time.Now().Add(time.Hour)))
		user, _, err := st.GetSession(ctx, "t9")
		require.NoError(t, err)
		assert.Equal(t, "carol", user)
		require.NoError(t, st.DeleteSession(ctx, "t9"))
	})

	t.Run("delete by username", func(t *testing.T) {
		require.NoError(t, st.DeleteSessionsByUsername(ctx, "alice"))
		_, _, err := st.GetSession(ctx, "t1")
		require.ErrorIs(t, err, ErrSessionNotFound)
		_, _, err = st.GetSession(ctx, "t2")
		require.ErrorIs(t, err, ErrSessionNotFound)
		user, _, err := st.GetSession(ctx, "t3")
		require.NoError(t, err)
		assert.Equal(t, "bob", user)
	})

	t.Run("delete single", func(t *testing.T) {
		require.NoError(t, st.DeleteSession(ctx, "t3"))
		_, _, err := st.GetSession(ctx, "t3")
		require.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestMemorySessions_Expired(t *testing.T) {
	st := testSessionStore(t)
	ctx := t.Context()

	require.NoError(t, st.CreateSession(ctx, "old1", "alice", time.Now().Add(-time.Minute)))
	require.NoError(t, st.CreateSession(ctx, "old2", "bob", time.Now().Add(-time.Second)))
	require.NoError(t, st.CreateSession(ctx, "fresh", "carol", time.Now().Add(time.Hour)))

	n, err := st.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, _, err = st.GetSession(ctx, "fresh")
	require.NoError(t, err)

	require.NoError(t, st.CreateSession(ctx, "old3", "dave", time.Now().Add(-time.Second)))
	_, _, err = st.GetSession(ctx, "old3")
	require.ErrorIs(t, err, ErrSessionNotFound, "expired session is not returned before cleanup")
}
