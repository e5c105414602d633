package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/virthub/hubctl/internal/config"
	"github.com/virthub/hubctl/internal/hostenv"
	"github.com/virthub/hubctl/internal/k8s"
)

// recordingObserver captures events for assertions.
type recordingObserver struct {
	mu       sync.Mutex
	events   []Event
	messages []string
}

func (o *recordingObserver) Printf(format string, v ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, fmt.Sprintf(format, v...))
}

func (o *recordingObserver) Event(event Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) Progress(string, int, int) {}

func (o *recordingObserver) eventTypes() []EventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	types := make([]EventType, len(o.events))
	for i, e := range o.events {
		types[i] = e.Type
	}
	return types
}

// fakeInstaller scripts the ClusterInstaller capability.
type fakeInstaller struct {
	installed      bool
	installErr     error
	waitErr        error
	installCalls   int
	waitCalls      int
	installedCalls int
}

func (f *fakeInstaller) Installed(context.Context) bool {
	f.installedCalls++
	return f.installed
}

func (f *fakeInstaller) Install(context.Context) error {
	f.installCalls++
	return f.installErr
}

func (f *fakeInstaller) WaitForKubeconfig(context.Context, time.Duration, int) error {
	f.waitCalls++
	return f.waitErr
}

// fakeAdmin scripts the ClusterAdmin capability. nodesFn, when set, is
// called per NodeStatuses invocation so tests can simulate convergence.
type fakeAdmin struct {
	nodes      []k8s.NodeStatus
	nodesErr   error
	nodesFn    func(call int) ([]k8s.NodeStatus, error)
	nodeCalls  int
	problems   []k8s.PodProblem
	podsErr    error
	applied    []string
	applyErr   error
	rolloutErr error
}

func (f *fakeAdmin) NodeStatuses(context.Context) ([]k8s.NodeStatus, error) {
	f.nodeCalls++
	if f.nodesFn != nil {
		return f.nodesFn(f.nodeCalls)
	}
	return f.nodes, f.nodesErr
}

func (f *fakeAdmin) ProblemPods(context.Context) ([]k8s.PodProblem, error) {
	return f.problems, f.podsErr
}

func (f *fakeAdmin) ApplyManifest(_ context.Context, _ string) ([]string, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	if f.applied == nil {
		return []string{"v1/Service cattle-system/rancher-nodeport"}, nil
	}
	return f.applied, nil
}

func (f *fakeAdmin) WaitForDeployment(context.Context, string, string, time.Duration) error {
	return f.rolloutErr
}

// fakeAddon scripts the AddonInstaller capability.
type fakeAddon struct {
	exists      bool
	ensureErr   error
	ensureCalls int
	lastIP      string
}

func (f *fakeAddon) Ensure(_ context.Context, primaryIP string) (bool, error) {
	f.ensureCalls++
	f.lastIP = primaryIP
	if f.ensureErr != nil {
		return false, f.ensureErr
	}
	return !f.exists, nil
}

// fakeStage is a scriptable pipeline stage.
type fakeStage struct {
	name string
	err  error
	ran  *[]string
}

func (s *fakeStage) Name() string { return s.name }

func (s *fakeStage) Run(*Context) error {
	if s.ran != nil {
		*s.ran = append(*s.ran, s.name)
	}
	return s.err
}

var errBoom = errors.New("boom")

func readyNode(name string) k8s.NodeStatus {
	return k8s.NodeStatus{Name: name, Ready: true, Roles: []string{"control-plane"}, Version: "v1.32.0+k3s1"}
}

func notReadyNode(name string) k8s.NodeStatus {
	return k8s.NodeStatus{Name: name, Ready: false}
}

// testContext builds a Context with fast polling and a recording observer.
func testContext(ctx context.Context) (*Context, *recordingObserver) {
	cfg := config.Default()
	cfg.Readiness.IntervalSeconds = 0
	cfg.Readiness.Attempts = 3

	obs := &recordingObserver{}
	return &Context{
		Context: ctx,
		Config:  cfg,
		Timeouts: &config.Timeouts{
			KubeconfigWait: 4 * time.Second,
			RancherRollout: time.Second,
			APIQuery:       time.Second,
		},
		Identity: &hostenv.Identity{
			Hostname:  "host1",
			PrimaryIP: "192.168.1.50",
			User:      "admin",
			UID:       1000,
			GID:       1000,
			Home:      "/home/admin",
		},
		State:    &State{},
		Observer: obs,
	}, obs
}
