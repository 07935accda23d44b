package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const dotenvChildEnv = "EVOAI_CONFIG_DOTENV_CHILD"

// TestDotenvLoadedBeforeConfig re-runs this test binary inside a directory holding a .env
// file and checks that the package level settings picked the file up.
func TestDotenvLoadedBeforeConfig(t *testing.T) {
	if os.Getenv(dotenvChildEnv) == "1" {
		fmt.Printf("sqlite=%s base=%s\n", SQLitePath, SmokeTestAPIBase)
		return
	}

	dir := t.TempDir()
	dotenv := "SQLITE_PATH=from-dotenv.db\nEVOAI_API_BASE=http://example.test/api\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600))

	exe, err := os.Executable()
	require.NoError(t, err)

	cmd := exec.Command(exe, "-test.run=^TestDotenvLoadedBeforeConfig$")
	cmd.Dir = dir
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "SQLITE_PATH=") || strings.HasPrefix(kv, "EVOAI_API_BASE=") {
			continue
		}
		cmd.Env = append(cmd.Env, kv)
	}
	cmd.Env = append(cmd.Env, dotenvChildEnv+"=1")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.Contains(t, string(out), "sqlite=from-dotenv.db base=http://example.test/api")
}
