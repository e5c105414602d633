package commands

import (
	"github.com/spf13/cobra"

	"github.com/virthub/hubctl/cmd/hubctl/handlers"
)

// Up returns the command that runs the full bootstrap sequence.
//
// The sequence, strictly ordered:
//  1. Ensures the hostname resolves to the host's primary address
//  2. Installs the k3s server (ingress controller disabled), or verifies
//     an existing install
//  3. Polls node status until the control plane reports Ready (bounded)
//  4. Copies the admin kubeconfig to the invoking user with correct ownership
//  5. Creates a kubectl shim, applies the bootstrap manifest if present
//  6. Installs Rancher via helm and verifies cluster health
//
// Must be run as root (sudo). The invoking user is recovered from
// SUDO_USER for credential ownership.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect hubctl.yaml)
//	--skip-rancher: Do not install the Rancher deployment
//	--skip-manifests: Do not apply the bootstrap manifest
func Up() *cobra.Command {
	var (
		configPath    string
		skipRancher   bool
		skipManifests bool
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bootstrap the host into a single-node k3s control plane",
		Long: `Bootstrap the current host into a verified single-node k3s control plane.

The run is idempotent: an already-bootstrapped host passes every stage
without duplicate hosts-file entries or a second install, and ends in the
same success result.

On failure the run stops at the failing stage and reports it; partial state
is never rolled back automatically. Recover with 'hubctl teardown' followed
by a fresh 'hubctl up'.

Examples:
  # Full bootstrap with defaults
  sudo hubctl up

  # Use a specific config file
  sudo hubctl up -c production.yaml

  # Cluster only, no Rancher
  sudo hubctl up --skip-rancher`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := handlers.UpOptions{
				ConfigPath:    configPath,
				SkipRancher:   skipRancher,
				SkipManifests: skipManifests,
			}
			return handlers.Up(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: hubctl.yaml)")
	cmd.Flags().BoolVar(&skipRancher, "skip-rancher", false, "Skip the Rancher install")
	cmd.Flags().BoolVar(&skipManifests, "skip-manifests", false, "Skip applying the bootstrap manifest")

	return cmd
}
