package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zkr "github.com/zalando/go-keyring"

	"discord-share/internal/history"
	"discord-share/internal/models"
)

var (
	_ history.Store = (*Scoped)(nil)
	_ history.Store = (*Keyring)(nil)
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "share.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestScopedRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	local := db.Scope(ScopeLocal)

	_, ok, err := local.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, local.Set(ctx, "k", []byte("v1")))
	require.NoError(t, local.Set(ctx, "k", []byte("v2")))
	v, ok, err := local.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", string(v))

	require.NoError(t, local.Delete(ctx, "k"))
	_, ok, err = local.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	require.NoError(t, db.Scope(ScopeSync).Set(ctx, "webhookUrl", []byte(`"a"`)))

	_, ok, err := db.Scope(ScopeLocal).Get(ctx, "webhookUrl")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := db.Scope(ScopeSync).keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"webhookUrl"}, keys)
}

func TestRecorderOverSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "share.db")
	db, err := Open(path)
	require.NoError(t, err)

	r := history.NewRecorder(db.Scope(ScopeLocal))
	require.NoError(t, r.RecordShare(ctx, models.ShareRecord{ID: "1", URL: "https://go.dev", Tags: []string{"#go"}}))
	require.NoError(t, db.Close())

	// survives a reopen
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	r = history.NewRecorder(db.Scope(ScopeLocal))
	list, err := r.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "https://go.dev", list[0].URL)
}

func TestKeyring(t *testing.T) {
	zkr.MockInit()
	ctx := context.Background()
	k := NewKeyring("discord-share-test")

	_, ok, err := k.Get(ctx, "webhookUrl")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, k.Set(ctx, "webhookUrl", []byte(`"https://discord.com/api/webhooks/1/a"`)))
	v, ok, err := k.Get(ctx, "webhookUrl")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"https://discord.com/api/webhooks/1/a"`, string(v))

	require.NoError(t, k.Delete(ctx, "webhookUrl"))
	require.NoError(t, k.Delete(ctx, "webhookUrl"))
	assert.True(t, KeyringAvailable("discord-share-test"))
}
