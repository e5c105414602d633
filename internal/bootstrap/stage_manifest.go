package bootstrap

import (
	"os"
	"strings"
)

// ManifestStage applies the optional bootstrap manifest (the NodePort
// service exposing Rancher). A missing manifest is not an error, and apply
// failures are warnings: the cluster itself is already bootstrapped.
type ManifestStage struct{}

// Name implements Stage.
func (s *ManifestStage) Name() string { return "manifests" }

// Run implements Stage.
func (s *ManifestStage) Run(ctx *Context) error {
	data, err := os.ReadFile(ctx.Config.Manifest)
	if os.IsNotExist(err) {
		ctx.Observer.Event(Event{
			Type:    EventStageSkipped,
			Stage:   s.Name(),
			Message: "no manifest at " + ctx.Config.Manifest,
		})
		return nil
	}
	if err != nil {
		ctx.State.Warnf("failed to read manifest %s: %v", ctx.Config.Manifest, err)
		return nil
	}

	applied, err := ctx.State.Admin.ApplyManifest(ctx, string(data))
	if err != nil {
		ctx.State.Warnf("failed to apply %s: %v", ctx.Config.Manifest, err)
		return nil
	}

	ctx.Observer.Event(Event{
		Type:     EventResourceWritten,
		Stage:    s.Name(),
		Resource: ctx.Config.Manifest,
		Message:  "applied " + strings.Join(applied, ", "),
	})
	return nil
}
