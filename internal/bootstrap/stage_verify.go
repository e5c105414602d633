package bootstrap

import (
	"github.com/virthub/hubctl/internal/k8s"
)

// VerifyStage re-queries node and pod status as a final best-effort,
// point-in-time confirmation. Unhealthy findings are recorded as warnings;
// the run still counts as succeeded because the cluster may be usable and
// remediation is never automatic.
type VerifyStage struct{}

// Name implements Stage.
func (s *VerifyStage) Name() string { return "verify" }

// Run implements Stage.
func (s *VerifyStage) Run(ctx *Context) error {
	nodes, err := ctx.State.Admin.NodeStatuses(ctx)
	if err != nil {
		ctx.State.Warnf("health check could not query nodes: %v", err)
		return nil
	}
	ctx.State.Nodes = nodes

	problems, err := ctx.State.Admin.ProblemPods(ctx)
	if err != nil {
		ctx.State.Warnf("health check could not query pods: %v", err)
		return nil
	}
	ctx.State.Problems = problems

	if !k8s.AllNodesReady(nodes) || len(problems) > 0 {
		failure := &HealthCheckFailure{Nodes: nodes, Problems: problems}
		ctx.State.Health = failure
		ctx.State.Warnf("%v", failure)
		ctx.Observer.Event(Event{
			Type:    EventWarning,
			Stage:   s.Name(),
			Message: failure.Error(),
		})
		return nil
	}

	ctx.Observer.Printf("[%s] all %d node(s) Ready, no problem pods", s.Name(), len(nodes))
	return nil
}
