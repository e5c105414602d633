package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/virthub/hubctl/internal/k8s"
)

// HealthStatus represents the cluster health for JSON output.
type HealthStatus struct {
	Healthy  bool         `json:"healthy"`
	Nodes    []NodeHealth `json:"nodes"`
	Problems []PodHealth  `json:"problems,omitempty"`
}

// NodeHealth represents one node's readiness.
type NodeHealth struct {
	Name    string   `json:"name"`
	Ready   bool     `json:"ready"`
	Roles   []string `json:"roles,omitempty"`
	Age     string   `json:"age"`
	Version string   `json:"version"`
}

// PodHealth represents a pod in a persistent error condition.
type PodHealth struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Phase     string `json:"phase"`
	Reason    string `json:"reason,omitempty"`
}

// Health handles the health command: a standalone re-run of the bootstrap's
// final verification against an existing cluster.
func Health(ctx context.Context, kubeconfigPath string, jsonOutput bool) error {
	path, err := resolveKubeconfigPath(kubeconfigPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("kubeconfig not found at %s - is the cluster bootstrapped?", path)
	}

	admin, err := newClusterAdmin(path)
	if err != nil {
		return fmt.Errorf("failed to create cluster client: %w", err)
	}

	nodes, err := admin.NodeStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to query nodes: %w", err)
	}
	problems, err := admin.ProblemPods(ctx)
	if err != nil {
		return fmt.Errorf("failed to query pods: %w", err)
	}

	status := buildHealthStatus(nodes, problems)

	if jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printHealth(status)
	return nil
}

// buildHealthStatus reduces the snapshots to the reportable status.
func buildHealthStatus(nodes []k8s.NodeStatus, problems []k8s.PodProblem) *HealthStatus {
	status := &HealthStatus{
		Healthy: k8s.AllNodesReady(nodes) && len(problems) == 0,
	}
	for _, n := range nodes {
		status.Nodes = append(status.Nodes, NodeHealth{
			Name:    n.Name,
			Ready:   n.Ready,
			Roles:   n.Roles,
			Age:     n.Age.Round(time.Second).String(),
			Version: n.Version,
		})
	}
	for _, p := range problems {
		status.Problems = append(status.Problems, PodHealth{
			Namespace: p.Namespace,
			Name:      p.Name,
			Phase:     p.Phase,
			Reason:    p.Reason,
		})
	}
	return status
}

func printHealth(status *HealthStatus) {
	printer := newPrinter()
	printer.Section("Cluster Health")
	for _, n := range status.Nodes {
		if n.Ready {
			printer.Successf("node %s Ready %s %s", n.Name, n.Version, n.Age)
		} else {
			printer.Failf("node %s NotReady %s %s", n.Name, n.Version, n.Age)
		}
	}
	for _, p := range status.Problems {
		printer.Failf("pod %s/%s %s %s", p.Namespace, p.Name, p.Phase, p.Reason)
	}
	if status.Healthy {
		printer.Successf("cluster healthy")
	} else {
		printer.Warnf("cluster has unhealthy resources")
	}
}

// resolveKubeconfigPath picks the kubeconfig: explicit flag, then the
// KUBECONFIG environment variable, then the current user's ~/.kube/config.
func resolveKubeconfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".kube", "config"), nil
}
