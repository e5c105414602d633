// Package kubeconfig copies the cluster admin credential file into the
// invoking user's configuration directory with correct ownership.
package kubeconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/virthub/hubctl/internal/hostenv"
)

// Function variables for dependency injection in tests.
var (
	chownFile = os.Chown
	now       = time.Now
)

// Result records what the propagation actually did.
type Result struct {
	// Dest is the path of the user's kubeconfig.
	Dest string

	// BackupPath is set when a pre-existing, differing config was moved
	// aside before writing. Pre-existing configs may hold credentials for
	// other clusters, so they are never overwritten silently.
	BackupPath string

	// Written is false when the destination already matched the source.
	Written bool
}

// Propagate copies the credential file at source to <home>/.kube/config,
// backs up any differing pre-existing config with a timestamp suffix, and
// assigns ownership of the directory and file to the invoking user.
// The source file is left untouched.
func Propagate(source string, id *hostenv.Identity) (*Result, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file %s: %w", source, err)
	}

	kubeDir := filepath.Join(id.Home, ".kube")
	if err := os.MkdirAll(kubeDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", kubeDir, err)
	}

	dest := filepath.Join(kubeDir, "config")
	res := &Result{Dest: dest}

	existing, err := os.ReadFile(dest)
	switch {
	case err == nil && bytes.Equal(existing, data):
		// Already propagated; only re-assert ownership.
		return res, chownAll(id, kubeDir, dest)
	case err == nil:
		backup := fmt.Sprintf("%s.bak-%s", dest, now().Format("20060102-150405"))
		if err := os.Rename(dest, backup); err != nil {
			return nil, fmt.Errorf("failed to back up existing config: %w", err)
		}
		res.BackupPath = backup
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to inspect existing config: %w", err)
	}

	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", dest, err)
	}
	res.Written = true

	if err := chownAll(id, kubeDir, dest, res.BackupPath); err != nil {
		return nil, err
	}
	return res, nil
}

// chownAll assigns the invoking user's uid/gid to each non-empty path.
func chownAll(id *hostenv.Identity, paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := chownFile(path, id.UID, id.GID); err != nil {
			return fmt.Errorf("failed to chown %s to %s: %w", path, id.User, err)
		}
	}
	return nil
}
