package tablewriter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordLoaders(t *testing.T) {
	ctx := context.Background()

	cfg := NewConfig()
	cfg.Password = "static"
	pw, err := initPasswordLoader(cfg).LoadPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "static", pw)

	path := filepath.Join(t.TempDir(), "password.toml")
	require.NoError(t, os.WriteFile(path, []byte(`password = "from-file"`), 0600))
	cfg.PasswordFile = path
	loader := initPasswordLoader(cfg)
	assert.IsType(t, &FilePasswordLoader{}, loader)
	pw, err = loader.LoadPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-file", pw)

	// a rotated password is picked up on the next load
	require.NoError(t, os.WriteFile(path, []byte(`password = "rotated"`), 0600))
	pw, err = loader.LoadPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated", pw)

	missing := filepath.Join(t.TempDir(), "nope.toml")
	_, err = NewFilePasswordLoader(missing).LoadPassword(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
