package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrInsecurePermissions is returned by CheckPermissions when other users
// can reach the data directory.
var ErrInsecurePermissions = errors.New("data directory is group or world accessible")

// IsDevRun reports whether the process was built by `go run` or `go test`,
// which place their binaries in the system temp dir or name them *.test.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// SandboxPath re-roots dir under <tmp>/sealnote-dev so development runs
// never touch a real vault. Paths already inside the temp dir are kept.
func SandboxPath(dir string) string {
	clean := filepath.Clean(dir)
	if rel, err := filepath.Rel(os.TempDir(), clean); err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	name := filepath.Base(clean)
	if dir == "" || name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(os.TempDir(), "sealnote-dev", name)
}

// CheckPermissions warns when the data directory can be read by other
// users. A missing directory is left to the repository.
func CheckPermissions(dir string, logger *slog.Logger) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Warn("data directory is accessible by other users",
			"path", dir, "mode", fmt.Sprintf("%#o", perm))
		return ErrInsecurePermissions
	}
	return nil
}
