package bootstrap

import (
	"fmt"
	"time"
)

// kubeconfigPollInterval is how often the install stage re-checks for the
// generated credential file.
const kubeconfigPollInterval = 2 * time.Second

// InstallStage installs the k3s server unless an active install already
// exists, then waits for the distribution to write its credential file.
type InstallStage struct{}

// Name implements Stage.
func (s *InstallStage) Name() string { return "install" }

// Run implements Stage.
func (s *InstallStage) Run(ctx *Context) error {
	if ctx.Installer.Installed(ctx) {
		ctx.State.InstallSkipped = true
		ctx.Observer.Event(Event{
			Type:    EventResourceExists,
			Stage:   s.Name(),
			Message: "k3s server already active, skipping install",
		})
	} else {
		ctx.Observer.Printf("[%s] installing k3s server (ingress controller disabled)...", s.Name())
		if err := ctx.Installer.Install(ctx); err != nil {
			return &InstallError{Err: err}
		}
	}

	attempts := int(ctx.Timeouts.KubeconfigWait / kubeconfigPollInterval)
	if attempts < 1 {
		attempts = 1
	}
	if err := ctx.Installer.WaitForKubeconfig(ctx, kubeconfigPollInterval, attempts); err != nil {
		return &InstallError{Err: fmt.Errorf("credential file never appeared: %w", err)}
	}
	return nil
}
