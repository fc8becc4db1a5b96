package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvDataDir overrides the configured data directory.
const EnvDataDir = "SEALNOTE_DIR"

// AppName names the directory under the user config dir.
const AppName = "sealnote"

// ResolveDataDir picks the data directory: the explicit flag value, then
// $SEALNOTE_DIR, then data_dir from the config file, then
// <user config dir>/sealnote. The result is absolute.
func ResolveDataDir(flagDir string, cfg FileConfig) (string, error) {
	dir := flagDir
	if dir == "" {
		dir = os.Getenv(EnvDataDir)
	}
	if dir == "" {
		dir = cfg.DataDir
	}
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate user config dir: %w", err)
		}
		dir = filepath.Join(base, AppName)
	}

	abs, err := filepath.Abs(expandHome(dir))
	if err != nil {
		return "", err
	}
	return abs, nil
}

func expandHome(p string) string {
	if p != "~" && !hasHomePrefix(p) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

func hasHomePrefix(p string) bool {
	return len(p) >= 2 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator)
}
