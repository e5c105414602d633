// Package k8s provides a thin Kubernetes client for bootstrap verification.
//
// It implements the cluster-admin capability the bootstrap pipeline needs:
// node readiness snapshots, a pod problem scan across namespaces, manifest
// application, and deployment rollout waits. All cluster communication goes
// through the official client libraries against the generated kubeconfig.
package k8s

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// NodeStatus is a read-only snapshot of a node's readiness.
type NodeStatus struct {
	Name    string
	Ready   bool
	Roles   []string
	Age     time.Duration
	Version string
}

// String renders the snapshot in `kubectl get nodes` column order.
func (n NodeStatus) String() string {
	state := "NotReady"
	if n.Ready {
		state = "Ready"
	}
	roles := strings.Join(n.Roles, ",")
	if roles == "" {
		roles = "<none>"
	}
	return fmt.Sprintf("%s %s %s %s %s", n.Name, state, roles, n.Age.Round(time.Second), n.Version)
}

// PodProblem describes a pod in a persistent crash or error condition.
type PodProblem struct {
	Namespace string
	Name      string
	Phase     string
	Reason    string
}

func (p PodProblem) String() string {
	return fmt.Sprintf("%s/%s (%s: %s)", p.Namespace, p.Name, p.Phase, p.Reason)
}

// Client wraps Kubernetes API operations for bootstrap verification.
type Client struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
	now       func() time.Time
}

// NewClient creates a new Kubernetes client from a kubeconfig file.
func NewClient(kubeconfigPath string) (*Client, error) {
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return &Client{
		clientset: clientset,
		dynamic:   dynamicClient,
		now:       time.Now,
	}, nil
}

// NewFromClientset creates a Client around an existing clientset.
// Manifest application is unavailable on clients built this way.
func NewFromClientset(clientset kubernetes.Interface) *Client {
	return &Client{clientset: clientset, now: time.Now}
}

// NodeStatuses returns a readiness snapshot for every node in the cluster.
func (c *Client) NodeStatuses(ctx context.Context) ([]NodeStatus, error) {
	nodeList, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	statuses := make([]NodeStatus, 0, len(nodeList.Items))
	for idx := range nodeList.Items {
		statuses = append(statuses, snapshotNode(&nodeList.Items[idx], c.now()))
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses, nil
}

// AnyNodeReady reports whether at least one node has a true Ready condition.
func AnyNodeReady(statuses []NodeStatus) bool {
	for _, s := range statuses {
		if s.Ready {
			return true
		}
	}
	return false
}

// AllNodesReady reports whether every node has a true Ready condition.
// An empty node list is not ready.
func AllNodesReady(statuses []NodeStatus) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if !s.Ready {
			return false
		}
	}
	return true
}

// ProblemPods scans pods across all namespaces and returns those in a
// persistent crash or error condition at the time of the check.
func (c *Client) ProblemPods(ctx context.Context) ([]PodProblem, error) {
	podList, err := c.clientset.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}

	var problems []PodProblem
	for idx := range podList.Items {
		if problem, bad := classifyPod(&podList.Items[idx]); bad {
			problems = append(problems, problem)
		}
	}
	return problems, nil
}

// WaitForDeployment waits for a deployment rollout to complete.
func (c *Client) WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, 5*time.Second, timeout, true,
		func(ctx context.Context) (bool, error) {
			deployment, getErr := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
			if getErr != nil {
				return false, nil
			}
			return isDeploymentReady(deployment), nil
		})
	if err != nil {
		return fmt.Errorf("deployment %s/%s not ready: %w", namespace, name, err)
	}
	return nil
}

// snapshotNode reduces a node object to the fields the poller compares.
func snapshotNode(node *corev1.Node, now time.Time) NodeStatus {
	return NodeStatus{
		Name:    node.Name,
		Ready:   isNodeReady(node),
		Roles:   nodeRoles(node),
		Age:     now.Sub(node.CreationTimestamp.Time),
		Version: node.Status.NodeInfo.KubeletVersion,
	}
}

// isNodeReady checks the node's Ready condition.
func isNodeReady(node *corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

const nodeRoleLabelPrefix = "node-role.kubernetes.io/"

// nodeRoles extracts role names from the node's role labels, sorted.
func nodeRoles(node *corev1.Node) []string {
	var roles []string
	for label := range node.Labels {
		if role := strings.TrimPrefix(label, nodeRoleLabelPrefix); role != label && role != "" {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return roles
}

// crashWaitingReasons are container waiting reasons treated as persistent
// failures rather than normal startup churn.
var crashWaitingReasons = map[string]bool{
	"CrashLoopBackOff":     true,
	"ImagePullBackOff":     true,
	"ErrImagePull":         true,
	"CreateContainerError": true,
}

// classifyPod reports whether the pod is in a persistent error condition.
// Succeeded pods (completed jobs) are healthy; Pending pods are only a
// problem when a container is stuck in a crash waiting reason.
func classifyPod(pod *corev1.Pod) (PodProblem, bool) {
	if pod.Status.Phase == corev1.PodFailed {
		return PodProblem{
			Namespace: pod.Namespace,
			Name:      pod.Name,
			Phase:     string(pod.Status.Phase),
			Reason:    pod.Status.Reason,
		}, true
	}

	for _, cs := range pod.Status.ContainerStatuses {
		if cs.State.Waiting != nil && crashWaitingReasons[cs.State.Waiting.Reason] {
			return PodProblem{
				Namespace: pod.Namespace,
				Name:      pod.Name,
				Phase:     string(pod.Status.Phase),
				Reason:    cs.State.Waiting.Reason,
			}, true
		}
	}

	return PodProblem{}, false
}

// isDeploymentReady checks if a deployment rollout has completed.
func isDeploymentReady(deployment *appsv1.Deployment) bool {
	if deployment.Spec.Replicas == nil {
		return false
	}
	replicas := *deployment.Spec.Replicas
	if deployment.Status.UpdatedReplicas != replicas ||
		deployment.Status.Replicas != replicas ||
		deployment.Status.AvailableReplicas != replicas {
		return false
	}

	for _, condition := range deployment.Status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}
