package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/tasklist/internal/app"
	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/testutil"
)

func TestServeCommand_InvalidSecretKey(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.Server.SecretKey = "too-short"
	repo := testutil.NewMockTaskRepository()
	c := app.NewWithDeps(app.Config{}, cfg, repo, repo.Clock, nil)

	cmd := newServeCommand(c)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--addr", "127.0.0.1:0"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.secret_key")
	assert.NotContains(t, buf.String(), "Serving on")

	// Sample tasks are seeded before the server is built
	assert.Contains(t, buf.String(), "Created 2 sample tasks")
	assert.Len(t, repo.Tasks, 2)
}

func TestServeCommand_NoSeed(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.Server.SecretKey = "too-short"
	repo := testutil.NewMockTaskRepository()
	c := app.NewWithDeps(app.Config{}, cfg, repo, repo.Clock, nil)

	cmd := newServeCommand(c)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-seed"})

	require.Error(t, cmd.Execute())
	assert.Empty(t, repo.Tasks)
}
