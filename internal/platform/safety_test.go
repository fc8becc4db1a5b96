package platform_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sealnote/internal/platform"
)

func TestIsDevRunUnderTest(t *testing.T) {
	assert.True(t, platform.IsDevRun())
}

func TestSandboxPath(t *testing.T) {
	devBase := filepath.Join(os.TempDir(), "sealnote-dev")
	inTemp := t.TempDir()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Empty", in: "", want: filepath.Join(devBase, "default")},
		{name: "Current Dir", in: ".", want: filepath.Join(devBase, "default")},
		{name: "Real Path", in: "/home/someone/.config/sealnote", want: filepath.Join(devBase, "sealnote")},
		{name: "Already In Temp", in: inTemp, want: inTemp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, platform.SandboxPath(tt.in))
		})
	}
}

func TestCheckPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions")
	}
	logger := slog.New(slog.DiscardHandler)

	dir := filepath.Join(t.TempDir(), "data")
	assert.NoError(t, platform.CheckPermissions(dir, logger), "missing dir is fine")

	require.NoError(t, os.Mkdir(dir, 0o700))
	require.NoError(t, os.Chmod(dir, 0o700))
	assert.NoError(t, platform.CheckPermissions(dir, logger))

	require.NoError(t, os.Chmod(dir, 0o755))
	assert.ErrorIs(t, platform.CheckPermissions(dir, logger), platform.ErrInsecurePermissions)
}
