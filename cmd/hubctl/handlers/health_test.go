package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virthub/hubctl/internal/bootstrap"
	"github.com/virthub/hubctl/internal/k8s"
)

func TestBuildHealthStatus(t *testing.T) {
	t.Parallel()

	t.Run("healthy cluster", func(t *testing.T) {
		t.Parallel()
		status := buildHealthStatus([]k8s.NodeStatus{
			{Name: "host1", Ready: true, Roles: []string{"control-plane"}, Age: 90 * time.Second, Version: "v1.32.0+k3s1"},
		}, nil)

		assert.True(t, status.Healthy)
		require.Len(t, status.Nodes, 1)
		assert.Equal(t, "host1", status.Nodes[0].Name)
		assert.Equal(t, "1m30s", status.Nodes[0].Age)
		assert.Empty(t, status.Problems)
	})

	t.Run("not-ready node", func(t *testing.T) {
		t.Parallel()
		status := buildHealthStatus([]k8s.NodeStatus{{Name: "host1", Ready: false}}, nil)
		assert.False(t, status.Healthy)
	})

	t.Run("problem pods", func(t *testing.T) {
		t.Parallel()
		status := buildHealthStatus(
			[]k8s.NodeStatus{{Name: "host1", Ready: true}},
			[]k8s.PodProblem{{Namespace: "kube-system", Name: "coredns", Phase: "Running", Reason: "CrashLoopBackOff"}},
		)

		assert.False(t, status.Healthy)
		require.Len(t, status.Problems, 1)
		assert.Equal(t, "CrashLoopBackOff", status.Problems[0].Reason)
	})

	t.Run("empty cluster is unhealthy", func(t *testing.T) {
		t.Parallel()
		assert.False(t, buildHealthStatus(nil, nil).Healthy)
	})
}

func TestResolveKubeconfigPath(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/from/env")
		path, err := resolveKubeconfigPath("/explicit/config")
		require.NoError(t, err)
		assert.Equal(t, "/explicit/config", path)
	})

	t.Run("environment variable", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/from/env")
		path, err := resolveKubeconfigPath("")
		require.NoError(t, err)
		assert.Equal(t, "/from/env", path)
	})

	t.Run("falls back to home directory", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "")

		path, err := resolveKubeconfigPath("")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(path))
		assert.Equal(t, filepath.Join(".kube", "config"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
	})
}

func TestHealth(t *testing.T) {
	t.Run("missing kubeconfig", func(t *testing.T) {
		err := Health(context.Background(), filepath.Join(t.TempDir(), "absent"), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is the cluster bootstrapped?")
	})

	t.Run("reports status from the cluster", func(t *testing.T) {
		host := buildTestHost(t)
		host.admin.problems = []k8s.PodProblem{
			{Namespace: "kube-system", Name: "coredns", Phase: "Running", Reason: "CrashLoopBackOff"},
		}

		require.NoError(t, Health(context.Background(), host.sourceKubeconfig, false))

		out := host.output.String()
		assert.Contains(t, out, "Cluster Health")
		assert.Contains(t, out, "coredns")
		assert.Contains(t, out, "unhealthy resources")
	})

	t.Run("client construction failure", func(t *testing.T) {
		host := buildTestHost(t)
		newClusterAdmin = func(string) (bootstrap.ClusterAdmin, error) {
			return nil, assert.AnError
		}

		err := Health(context.Background(), host.sourceKubeconfig, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create cluster client")
	})
}
