package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-share/internal/config"
)

const hookURL = "https://discord.com/api/webhooks/1/token"

func TestBuildEphemeral(t *testing.T) {
	cfg := config.Defaults()
	cfg.WebhookURL = hookURL

	a, err := Build(cfg, nil, Options{Ephemeral: true})
	require.NoError(t, err)
	defer a.Close()

	got, err := a.Service.Settings().WebhookURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hookURL, got)
}

func TestBuildPersistsSettings(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()
	cfg.DBPath = filepath.Join(t.TempDir(), "share.db")

	a, err := Build(cfg, nil, Options{})
	require.NoError(t, err)
	_, err = a.Service.Settings().AddSavedTag(ctx, "keep")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	a, err = Build(cfg, nil, Options{})
	require.NoError(t, err)
	defer a.Close()
	tags, err := a.Service.Settings().SavedTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"#keep"}, tags)
}
