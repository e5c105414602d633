package handlers

import (
	"context"
	"fmt"

	"github.com/virthub/hubctl/internal/bootstrap"
	"github.com/virthub/hubctl/internal/config"
	"github.com/virthub/hubctl/internal/k3s"
	"github.com/virthub/hubctl/internal/run"
)

// newUninstaller creates the k3s uninstaller (injectable for tests).
var newUninstaller = func(runner run.Runner, cfg *config.Config) interface {
	Uninstall(ctx context.Context) error
} {
	return k3s.NewInstaller(runner, cfg.InstallerURL, cfg.SourceKubeconfig, config.DefaultUninstallScript)
}

// Teardown removes the k3s install from the host. It is the explicit
// recovery path; nothing in the bootstrap ever calls it.
func Teardown(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("teardown removes the cluster and its data; re-run with --yes to confirm")
	}

	if err := requireRoot(); err != nil {
		return &bootstrap.PermissionError{Err: err}
	}

	cfg, err := loadConfig("")
	if err != nil {
		return err
	}

	uninstaller := newUninstaller(newRunner(), cfg)
	if err := uninstaller.Uninstall(ctx); err != nil {
		return err
	}

	printer := newPrinter()
	printer.Successf("k3s removed from this host")
	return nil
}
