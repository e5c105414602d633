// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"

	"github.com/virthub/hubctl/internal/bootstrap"
	"github.com/virthub/hubctl/internal/config"
	"github.com/virthub/hubctl/internal/hostenv"
	"github.com/virthub/hubctl/internal/k3s"
	"github.com/virthub/hubctl/internal/k8s"
	"github.com/virthub/hubctl/internal/rancher"
	"github.com/virthub/hubctl/internal/run"
	"github.com/virthub/hubctl/internal/ui"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// requireRoot verifies the process holds root privileges.
	requireRoot = hostenv.RequireRoot

	// resolveIdentity captures host and invoking-user identity.
	resolveIdentity = hostenv.Resolve

	// loadConfig loads the tool configuration.
	loadConfig = config.Load

	// newRunner creates the external command runner.
	newRunner = func() run.Runner { return run.NewExecRunner() }

	// newInstaller creates the k3s installer.
	newInstaller = func(runner run.Runner, cfg *config.Config) bootstrap.ClusterInstaller {
		return k3s.NewInstaller(runner, cfg.InstallerURL, cfg.SourceKubeconfig, config.DefaultUninstallScript)
	}

	// newClusterAdmin creates the cluster API capability.
	newClusterAdmin = func(kubeconfigPath string) (bootstrap.ClusterAdmin, error) {
		return k8s.NewClient(kubeconfigPath)
	}

	// newAddonInstaller creates the Rancher deployer.
	newAddonInstaller = func(kubeconfig []byte, rcfg config.RancherConfig) (bootstrap.AddonInstaller, error) {
		return rancher.NewDeployer(kubeconfig, rcfg)
	}

	// newPrinter creates the terminal output printer.
	newPrinter = ui.NewPrinter
)

// UpOptions configures the bootstrap run.
type UpOptions struct {
	ConfigPath    string
	SkipRancher   bool
	SkipManifests bool
}

// Up runs the full bootstrap sequence.
//
// The privilege check happens before anything else: an unprivileged
// invocation fails without touching the host. Identity is resolved once
// and passed to every stage.
func Up(ctx context.Context, opts UpOptions) error {
	if err := requireRoot(); err != nil {
		return &bootstrap.PermissionError{Err: err}
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.SkipRancher {
		cfg.Rancher.Enabled = false
	}
	if opts.SkipManifests {
		cfg.Manifest = ""
	}

	id, err := resolveIdentity()
	if err != nil {
		return fmt.Errorf("failed to resolve host identity: %w", err)
	}

	printer := newPrinter()
	printer.Section("K3s Cluster Bootstrap")
	printer.KeyValue("Hostname", id.Hostname)
	printer.KeyValue("Host IP", id.PrimaryIP)
	printer.KeyValue("Invoking user", id.User)
	printer.KeyValue("Home dir", id.Home)

	bctx := bootstrap.NewContext(ctx, cfg, id)
	runner := newRunner()
	bctx.Runner = runner
	bctx.Installer = newInstaller(runner, cfg)
	bctx.NewClusterAdmin = newClusterAdmin
	bctx.NewAddonInstaller = newAddonInstaller

	result := bootstrap.Run(bctx, bootstrap.Stages())
	printResult(printer, bctx, result)

	if !result.Succeeded {
		return fmt.Errorf("bootstrap failed at stage %s: %s", result.FailedStage, result.Message)
	}
	return nil
}

// printResult renders the verification summary and access banner.
func printResult(printer *ui.Printer, bctx *bootstrap.Context, result bootstrap.Result) {
	printer.Section("Cluster Verification")
	for _, node := range bctx.State.Nodes {
		if node.Ready {
			printer.Successf("%s", node)
		} else {
			printer.Failf("%s", node)
		}
	}
	for _, problem := range bctx.State.Problems {
		printer.Failf("pod %s", problem)
	}
	for _, warning := range result.Warnings {
		printer.Warnf("%s", warning)
	}

	if !result.Succeeded {
		printer.Failf("stage %s failed: %s", result.FailedStage, result.Message)
		return
	}

	if bctx.Config.Rancher.Enabled {
		printer.Section("Rancher Access")
		printer.KeyValue("HTTPS Endpoint", rancher.ServerURL(bctx.Identity.PrimaryIP, bctx.Config.Rancher.HTTPSNodePort))
		printer.KeyValue("Namespace", rancher.Namespace)
		printer.KeyValue("Bootstrap user", "admin")
	}

	printer.Section("Bootstrap Complete")
	if bctx.State.Kubeconfig != nil {
		printer.Successf("cluster access: KUBECONFIG=%s kubectl get nodes", bctx.State.Kubeconfig.Dest)
	}
	printer.Successf("%s", result.Message)
}
