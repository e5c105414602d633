package bootstrap

import (
	"github.com/virthub/hubctl/internal/kubeconfig"
)

// CredentialStage copies the generated admin credential file into the
// invoking user's ~/.kube/config and re-assigns ownership away from root.
// A pre-existing, differing config is backed up with a timestamp suffix
// first; it may hold credentials for other clusters.
type CredentialStage struct{}

// Name implements Stage.
func (s *CredentialStage) Name() string { return "credentials" }

// Run implements Stage.
func (s *CredentialStage) Run(ctx *Context) error {
	res, err := kubeconfig.Propagate(ctx.Config.SourceKubeconfig, ctx.Identity)
	if err != nil {
		return &CredentialPropagationError{Err: err}
	}
	ctx.State.Kubeconfig = res

	if res.BackupPath != "" {
		ctx.Observer.Event(Event{
			Type:     EventResourceWritten,
			Stage:    s.Name(),
			Resource: res.BackupPath,
			Message:  "existing config backed up",
		})
	}

	if !res.Written {
		ctx.Observer.Event(Event{
			Type:     EventResourceExists,
			Stage:    s.Name(),
			Resource: res.Dest,
			Message:  "already up to date",
		})
		return nil
	}

	ctx.Observer.Event(Event{
		Type:     EventResourceWritten,
		Stage:    s.Name(),
		Resource: res.Dest,
		Message:  "owned by " + ctx.Identity.User,
	})
	return nil
}
