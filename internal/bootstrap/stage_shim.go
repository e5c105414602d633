package bootstrap

import "os"

// kubectlShim delegates to the kubectl bundled inside the k3s binary.
const kubectlShim = "#!/bin/sh\nexec k3s kubectl \"$@\"\n"

// KubectlShimStage writes a kubectl shim when no kubectl is in PATH.
// The shim is a convenience; failures here are warnings, never fatal.
type KubectlShimStage struct{}

// Name implements Stage.
func (s *KubectlShimStage) Name() string { return "kubectl-shim" }

// Run implements Stage.
func (s *KubectlShimStage) Run(ctx *Context) error {
	if _, err := ctx.Runner.LookPath("kubectl"); err == nil {
		ctx.Observer.Event(Event{
			Type:    EventResourceExists,
			Stage:   s.Name(),
			Message: "kubectl already in PATH",
		})
		return nil
	}

	if _, err := ctx.Runner.LookPath("k3s"); err != nil {
		ctx.State.Warnf("k3s binary not in PATH; kubectl shim not created")
		return nil
	}

	if err := os.WriteFile(ctx.Config.KubectlShim, []byte(kubectlShim), 0o755); err != nil { // #nosec G306 - shim must be executable
		ctx.State.Warnf("failed to create kubectl shim at %s: %v", ctx.Config.KubectlShim, err)
		return nil
	}

	ctx.Observer.Event(Event{
		Type:     EventResourceWritten,
		Stage:    s.Name(),
		Resource: ctx.Config.KubectlShim,
		Message:  "kubectl shim created",
	})
	return nil
}
