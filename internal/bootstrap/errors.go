package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/virthub/hubctl/internal/k8s"
)

// PermissionError reports that the process lacks root privileges. It is
// raised before any stage runs, so no host mutation has happened yet.
type PermissionError struct {
	Err error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("insufficient privileges: %v", e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// ConfigWriteError reports a failed mutation of a host configuration file.
// Later stages assume correct local name resolution, so this is fatal.
type ConfigWriteError struct {
	Path string
	Err  error
}

func (e *ConfigWriteError) Error() string {
	return fmt.Sprintf("failed to update %s: %v", e.Path, e.Err)
}

func (e *ConfigWriteError) Unwrap() error { return e.Err }

// InstallError reports a failed cluster install. An already-active install
// never produces this error; only a genuine installer failure does.
type InstallError struct {
	Err error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("cluster install failed: %v", e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// ReadinessTimeoutError reports that no node became ready within the
// bounded poll budget. LastNodes carries the final observed snapshot for
// diagnostics.
type ReadinessTimeoutError struct {
	Attempts  int
	Interval  time.Duration
	LastNodes []k8s.NodeStatus
	Err       error
}

func (e *ReadinessTimeoutError) Error() string {
	msg := fmt.Sprintf("no node became ready after %d attempts at %v intervals", e.Attempts, e.Interval)
	if len(e.LastNodes) > 0 {
		lines := make([]string, 0, len(e.LastNodes))
		for _, n := range e.LastNodes {
			lines = append(lines, n.String())
		}
		msg += "; last observed status: " + strings.Join(lines, ", ")
	}
	return msg
}

func (e *ReadinessTimeoutError) Unwrap() error { return e.Err }

// CredentialPropagationError reports a failure to hand the cluster
// credentials to the invoking user. Without them the run is pointless, so
// this is fatal.
type CredentialPropagationError struct {
	Err error
}

func (e *CredentialPropagationError) Error() string {
	return fmt.Sprintf("credential propagation failed: %v", e.Err)
}

func (e *CredentialPropagationError) Unwrap() error { return e.Err }

// AddonInstallError reports a failed install of a post-bootstrap addon
// (the Rancher deployment).
type AddonInstallError struct {
	Addon string
	Err   error
}

func (e *AddonInstallError) Error() string {
	return fmt.Sprintf("failed to install %s: %v", e.Addon, e.Err)
}

func (e *AddonInstallError) Unwrap() error { return e.Err }

// HealthCheckFailure lists the resources that kept the final verification
// from passing. It is reported as a warning, not a fatal error: the cluster
// may still be usable and no automatic remediation is attempted.
type HealthCheckFailure struct {
	Nodes    []k8s.NodeStatus
	Problems []k8s.PodProblem
}

func (e *HealthCheckFailure) Error() string {
	var parts []string
	for _, n := range e.Nodes {
		if !n.Ready {
			parts = append(parts, "node "+n.String())
		}
	}
	for _, p := range e.Problems {
		parts = append(parts, "pod "+p.String())
	}
	if len(parts) == 0 {
		return "health check failed"
	}
	return "unhealthy resources: " + strings.Join(parts, "; ")
}
