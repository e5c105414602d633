// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the hubctl CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hubctl",
		Short: "Bootstrap a single-node k3s control plane with Rancher",
	}

	cmd.AddCommand(Up())
	cmd.AddCommand(Health())
	cmd.AddCommand(Teardown())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
