package k8s

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/yaml"
)

// ApplyManifest applies a multi-document YAML manifest to the cluster,
// creating each resource and falling back to update when it already exists,
// so re-running a bootstrap never fails on pre-applied manifests.
// It returns the kind/name identifiers of the applied resources.
func (c *Client) ApplyManifest(ctx context.Context, manifest string) ([]string, error) {
	if c.dynamic == nil {
		return nil, fmt.Errorf("client has no dynamic interface")
	}

	decoder := yaml.NewYAMLOrJSONDecoder(strings.NewReader(manifest), 4096)
	var applied []string

	for {
		var obj unstructured.Unstructured
		err := decoder.Decode(&obj)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return applied, fmt.Errorf("failed to decode manifest: %w", err)
		}

		if len(obj.Object) == 0 {
			continue
		}

		gvk := obj.GroupVersionKind()
		gvr := schema.GroupVersionResource{
			Group:    gvk.Group,
			Version:  gvk.Version,
			Resource: resourceForKind(gvk.Kind),
		}

		namespace := obj.GetNamespace()
		if namespace == "" {
			namespace = metav1.NamespaceDefault
		}

		client := c.dynamic.Resource(gvr).Namespace(namespace)
		if _, err = client.Create(ctx, &obj, metav1.CreateOptions{}); err != nil {
			if _, err = client.Update(ctx, &obj, metav1.UpdateOptions{}); err != nil {
				return applied, fmt.Errorf("failed to apply resource %s/%s: %w",
					obj.GetKind(), obj.GetName(), err)
			}
		}

		applied = append(applied, fmt.Sprintf("%s/%s", obj.GetKind(), obj.GetName()))
	}

	return applied, nil
}

// resourceForKind maps a Kubernetes kind to its resource name.
// Covers the kinds a bootstrap manifest plausibly contains.
func resourceForKind(kind string) string {
	switch kind {
	case "Service":
		return "services"
	case "Deployment":
		return "deployments"
	case "ConfigMap":
		return "configmaps"
	case "Secret":
		return "secrets"
	case "Namespace":
		return "namespaces"
	case "ServiceAccount":
		return "serviceaccounts"
	case "DaemonSet":
		return "daemonsets"
	case "StatefulSet":
		return "statefulsets"
	case "Ingress":
		return "ingresses"
	default:
		return strings.ToLower(kind) + "s"
	}
}
