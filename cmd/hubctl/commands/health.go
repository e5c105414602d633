package commands

import (
	"github.com/spf13/cobra"

	"github.com/virthub/hubctl/cmd/hubctl/handlers"
)

// Health returns the command for displaying cluster health status.
//
// This re-runs the bootstrap's final verification against an existing
// cluster: node readiness plus a pod problem scan across all namespaces.
//
// Optional flags:
//
//	--kubeconfig: Path to the kubeconfig (default: $KUBECONFIG, then ~/.kube/config)
//	--json: Output in JSON format
func Health() *cobra.Command {
	var kubeconfigPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show cluster health status",
		Long: `Display the current health of the bootstrapped cluster.

Shows every node with its readiness, roles, and version, and lists pods in
a persistent crash or error condition across all namespaces. This is a
point-in-time check, not a guarantee of long-term health.

Examples:
  # Show cluster health
  hubctl health

  # Get health status in JSON format
  hubctl health --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Health(cmd.Context(), kubeconfigPath, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&kubeconfigPath, "kubeconfig", "", "Path to kubeconfig (default: $KUBECONFIG, then ~/.kube/config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
