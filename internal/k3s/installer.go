// Package k3s drives the k3s distribution installer and its systemd unit.
//
// Nothing in here talks to the cluster API; the package only invokes the
// documented external command surface (install script, systemctl, the
// generated uninstall script) and inspects exit status and files.
package k3s

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/virthub/hubctl/internal/poll"
	"github.com/virthub/hubctl/internal/run"
)

// ServiceName is the systemd unit the installer creates in server mode.
const ServiceName = "k3s"

// serverExec requests single-node server mode with the bundled ingress
// controller disabled; ingress is provided by a NodePort service instead.
const serverExec = "server --disable traefik"

// Installer installs and removes a single-node k3s server.
type Installer struct {
	runner          run.Runner
	installerURL    string
	kubeconfigPath  string
	uninstallScript string
}

// NewInstaller returns an Installer using the given command runner.
func NewInstaller(runner run.Runner, installerURL, kubeconfigPath, uninstallScript string) *Installer {
	return &Installer{
		runner:          runner,
		installerURL:    installerURL,
		kubeconfigPath:  kubeconfigPath,
		uninstallScript: uninstallScript,
	}
}

// ServiceActive reports whether the k3s systemd unit is currently active.
func (i *Installer) ServiceActive(ctx context.Context) bool {
	return i.runner.Run(ctx, nil, "systemctl", "is-active", "--quiet", ServiceName) == nil
}

// Installed reports whether a usable install already exists: the service is
// active and the generated admin credential file is present. An active
// install is success for a re-run, not a failure.
func (i *Installer) Installed(ctx context.Context) bool {
	if !i.ServiceActive(ctx) {
		return false
	}
	_, err := os.Stat(i.kubeconfigPath)
	return err == nil
}

// Install runs the distribution's install script in server mode with the
// default ingress controller disabled. Any non-zero exit is returned as-is;
// the caller decides fatality.
func (i *Installer) Install(ctx context.Context) error {
	script := fmt.Sprintf("curl -sfL %s | sh -s -", i.installerURL)
	env := []string{"INSTALL_K3S_EXEC=" + serverExec}

	if err := i.runner.Run(ctx, env, "sh", "-c", script); err != nil {
		return fmt.Errorf("installer failed: %w", err)
	}
	return nil
}

// WaitForKubeconfig blocks until the generated credential file exists,
// polling at the given interval up to the attempt budget.
func (i *Installer) WaitForKubeconfig(ctx context.Context, interval time.Duration, attempts int) error {
	err := poll.Until(ctx, interval, attempts, func(int) (bool, error) {
		_, statErr := os.Stat(i.kubeconfigPath)
		return statErr == nil, nil
	})
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", i.kubeconfigPath, err)
	}
	return nil
}

// KubeconfigPath returns the location of the generated credential file.
func (i *Installer) KubeconfigPath() string {
	return i.kubeconfigPath
}

// Uninstall runs the uninstall script the installer left on the host.
// This is an explicit operation; bootstrap failures never trigger it.
func (i *Installer) Uninstall(ctx context.Context) error {
	if _, err := os.Stat(i.uninstallScript); err != nil {
		return fmt.Errorf("uninstall script not found at %s: %w", i.uninstallScript, err)
	}
	if err := i.runner.Run(ctx, nil, i.uninstallScript); err != nil {
		return fmt.Errorf("uninstall failed: %w", err)
	}
	return nil
}
