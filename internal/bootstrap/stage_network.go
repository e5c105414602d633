package bootstrap

import (
	"fmt"

	"github.com/virthub/hubctl/internal/hostsfile"
)

// NetworkIdentityStage ensures the hostname resolves locally to the host's
// primary address. Missing mappings are appended; an existing correct
// mapping leaves the file untouched. Stale mappings to other addresses are
// kept (append-only, last match wins for resolvers reading the file).
type NetworkIdentityStage struct{}

// Name implements Stage.
func (s *NetworkIdentityStage) Name() string { return "network-identity" }

// Run implements Stage.
func (s *NetworkIdentityStage) Run(ctx *Context) error {
	hosts := hostsfile.New(ctx.Config.HostsFile)
	entry := fmt.Sprintf("%s %s", ctx.Identity.PrimaryIP, ctx.Identity.Hostname)

	added, err := hosts.Ensure(ctx.Identity.PrimaryIP, ctx.Identity.Hostname)
	if err != nil {
		return &ConfigWriteError{Path: ctx.Config.HostsFile, Err: err}
	}

	ctx.State.HostsEntryAdded = added
	if added {
		ctx.Observer.Event(Event{
			Type:     EventResourceWritten,
			Stage:    s.Name(),
			Resource: ctx.Config.HostsFile,
			Message:  "appended " + entry,
		})
		return nil
	}

	ctx.Observer.Event(Event{
		Type:     EventResourceExists,
		Stage:    s.Name(),
		Resource: ctx.Config.HostsFile,
		Message:  entry + " already present",
	})
	return nil
}
