// Package bootstrap orchestrates the stages that take a bare Linux host to
// a verified single-node Kubernetes control plane.
//
// Control flows strictly forward: each stage's success is a precondition
// for the next, the first fatal error terminates the run, and no stage is
// re-entered automatically. The only internal loop is the bounded readiness
// poll. Recovery from a failed run is an explicit teardown-and-retry, never
// an implicit rollback.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/virthub/hubctl/internal/config"
	"github.com/virthub/hubctl/internal/hostenv"
	"github.com/virthub/hubctl/internal/k8s"
	"github.com/virthub/hubctl/internal/kubeconfig"
	"github.com/virthub/hubctl/internal/run"
)

// Stage is a single step of the bootstrap sequence.
type Stage interface {
	// Name returns the stage name used in events and failure reports.
	Name() string

	// Run executes the stage. Returning an error aborts the pipeline.
	Run(ctx *Context) error
}

// ClusterInstaller is the capability the install stage needs from the
// distribution installer.
type ClusterInstaller interface {
	Installed(ctx context.Context) bool
	Install(ctx context.Context) error
	WaitForKubeconfig(ctx context.Context, interval time.Duration, attempts int) error
}

// ClusterAdmin is the capability later stages need from the cluster API.
// The production implementation is *k8s.Client; tests use fakes.
type ClusterAdmin interface {
	NodeStatuses(ctx context.Context) ([]k8s.NodeStatus, error)
	ProblemPods(ctx context.Context) ([]k8s.PodProblem, error)
	ApplyManifest(ctx context.Context, manifest string) ([]string, error)
	WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error
}

// AddonInstaller installs the Rancher deployment onto the cluster.
type AddonInstaller interface {
	// Ensure installs the addon unless it already exists; returns true
	// when an install was performed.
	Ensure(ctx context.Context, primaryIP string) (bool, error)
}

// State holds the shared results of bootstrap stages. It is progressively
// populated and passed to subsequent stages that need earlier results.
type State struct {
	HostsEntryAdded bool
	InstallSkipped  bool

	// Admin is set by the readiness stage once credentials exist.
	Admin ClusterAdmin

	Nodes      []k8s.NodeStatus
	Problems   []k8s.PodProblem
	Kubeconfig *kubeconfig.Result
	Health     *HealthCheckFailure

	Warnings []string
}

// Warnf records a non-fatal finding for the final report.
func (s *State) Warnf(format string, v ...interface{}) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, v...))
}

// Context wraps the dependencies and state shared by all stages.
type Context struct {
	context.Context

	Config   *config.Config
	Timeouts *config.Timeouts
	Identity *hostenv.Identity
	State    *State
	Observer Observer

	Runner    run.Runner
	Installer ClusterInstaller

	// NewClusterAdmin builds the cluster capability from the generated
	// credential file. It is a factory because the file does not exist
	// before the install stage runs.
	NewClusterAdmin func(kubeconfigPath string) (ClusterAdmin, error)

	// NewAddonInstaller builds the Rancher installer from credential bytes.
	NewAddonInstaller func(kubeconfig []byte, cfg config.RancherConfig) (AddonInstaller, error)
}

// NewContext creates a bootstrap context with an empty state and a console
// observer.
func NewContext(ctx context.Context, cfg *config.Config, id *hostenv.Identity) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Timeouts: config.LoadTimeouts(),
		Identity: id,
		State:    &State{},
		Observer: NewConsoleObserver(),
	}
}

// Result is the terminal outcome of a bootstrap run.
type Result struct {
	Succeeded   bool
	FailedStage string
	Message     string
	Warnings    []string
}

// Run executes the stages sequentially, stopping at the first error.
// Interruption is honored between stages so a cancelled run never stops
// mid-mutation.
func Run(ctx *Context, stages []Stage) Result {
	start := time.Now()
	ctx.Observer.Printf("Starting bootstrap with %d stages...", len(stages))

	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			return Result{
				FailedStage: stage.Name(),
				Message:     fmt.Sprintf("interrupted before stage: %v", err),
				Warnings:    ctx.State.Warnings,
			}
		}

		name := fmt.Sprintf("%s (%d/%d)", stage.Name(), i+1, len(stages))
		stageStart := time.Now()
		ctx.Observer.Event(Event{Type: EventStageStarted, Stage: name, Message: "starting"})

		if err := stage.Run(ctx); err != nil {
			ctx.Observer.Event(Event{Type: EventStageFailed, Stage: name, Message: err.Error()})
			return Result{
				FailedStage: stage.Name(),
				Message:     err.Error(),
				Warnings:    ctx.State.Warnings,
			}
		}

		ctx.Observer.Event(Event{
			Type:    EventStageCompleted,
			Stage:   name,
			Message: fmt.Sprintf("completed in %v", time.Since(stageStart).Round(time.Millisecond)),
		})
	}

	return Result{
		Succeeded: true,
		Message:   fmt.Sprintf("bootstrap completed in %v", time.Since(start).Round(time.Millisecond)),
		Warnings:  ctx.State.Warnings,
	}
}

// Stages returns the full bootstrap sequence in its mandatory order.
func Stages() []Stage {
	return []Stage{
		&NetworkIdentityStage{},
		&InstallStage{},
		&ReadinessStage{},
		&CredentialStage{},
		&KubectlShimStage{},
		&ManifestStage{},
		&RancherStage{},
		&VerifyStage{},
	}
}
