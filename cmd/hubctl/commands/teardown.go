package commands

import (
	"github.com/spf13/cobra"

	"github.com/virthub/hubctl/cmd/hubctl/handlers"
)

// Teardown returns the command that removes the k3s install from the host.
//
// Teardown is the explicit recovery path after a failed bootstrap; it is
// never triggered implicitly. It runs the uninstall script the k3s
// installer left on the host, which removes the cluster and its data.
//
// Required flags:
//
//	--yes: Confirm the removal (the command refuses to run without it)
func Teardown() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Remove the k3s install from this host",
		Long: `Remove the k3s install and all cluster data from this host.

This runs the distribution's own uninstall script. The copied kubeconfig
under the invoking user's home is left in place.

Must be run as root (sudo).

Examples:
  sudo hubctl teardown --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Teardown(cmd.Context(), yes)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm removal of the cluster")

	return cmd
}
