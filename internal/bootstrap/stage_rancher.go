package bootstrap

import (
	"os"

	"github.com/virthub/hubctl/internal/rancher"
)

// RancherStage installs the Rancher management plane via the helm SDK and
// waits for its deployment to roll out. A failed install is fatal; a slow
// rollout is only a warning since Rancher may simply still be starting.
type RancherStage struct{}

// Name implements Stage.
func (s *RancherStage) Name() string { return "rancher" }

// Run implements Stage.
func (s *RancherStage) Run(ctx *Context) error {
	if !ctx.Config.Rancher.Enabled {
		ctx.Observer.Event(Event{
			Type:    EventStageSkipped,
			Stage:   s.Name(),
			Message: "rancher disabled in configuration",
		})
		return nil
	}

	kubeconfigBytes, err := os.ReadFile(ctx.Config.SourceKubeconfig)
	if err != nil {
		return &AddonInstallError{Addon: rancher.ReleaseName, Err: err}
	}

	installer, err := ctx.NewAddonInstaller(kubeconfigBytes, ctx.Config.Rancher)
	if err != nil {
		return &AddonInstallError{Addon: rancher.ReleaseName, Err: err}
	}

	installed, err := installer.Ensure(ctx, ctx.Identity.PrimaryIP)
	if err != nil {
		return &AddonInstallError{Addon: rancher.ReleaseName, Err: err}
	}
	if !installed {
		ctx.Observer.Event(Event{
			Type:    EventResourceExists,
			Stage:   s.Name(),
			Message: "rancher release already present, skipping install",
		})
	}

	ctx.Observer.Printf("[%s] waiting for rancher deployment rollout...", s.Name())
	if err := ctx.State.Admin.WaitForDeployment(ctx, rancher.Namespace, rancher.DeploymentName, ctx.Timeouts.RancherRollout); err != nil {
		ctx.State.Warnf("rancher rollout not complete: %v", err)
	}
	return nil
}
