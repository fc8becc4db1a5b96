package platform_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sealnote/internal/platform"
)

func TestResolveDataDir(t *testing.T) {
	base := t.TempDir()
	flagDir := filepath.Join(base, "flag")
	envDir := filepath.Join(base, "env")
	cfgDir := filepath.Join(base, "cfg")

	userConfig, err := os.UserConfigDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		flag string
		env  string
		cfg  platform.FileConfig
		want string
	}{
		{name: "Flag Wins", flag: flagDir, env: envDir, cfg: platform.FileConfig{DataDir: cfgDir}, want: flagDir},
		{name: "Env Over Config", env: envDir, cfg: platform.FileConfig{DataDir: cfgDir}, want: envDir},
		{name: "Config", cfg: platform.FileConfig{DataDir: cfgDir}, want: cfgDir},
		{name: "Default", want: filepath.Join(userConfig, platform.AppName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(platform.EnvDataDir, tt.env)

			got, err := platform.ResolveDataDir(tt.flag, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.want), got)
		})
	}
}

func TestResolveDataDirHomeAndRelative(t *testing.T) {
	t.Setenv(platform.EnvDataDir, "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := platform.ResolveDataDir("~/vault", platform.FileConfig{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "vault"), got)

	got, err = platform.ResolveDataDir("rel", platform.FileConfig{})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "rel", filepath.Base(got))
}
