// Package rancher installs the Rancher management plane with the helm SDK.
//
// The deployment is HTTPS-only behind a NodePort service; the chart's own
// ingress stays disabled because the bundled ingress controller is not
// installed on the cluster.
package rancher

import (
	"context"
	"fmt"
	"os"
	"time"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/repo"

	"github.com/virthub/hubctl/internal/config"
)

// Namespace and release conventions of the Rancher chart.
const (
	Namespace      = "cattle-system"
	ReleaseName    = "rancher"
	DeploymentName = "rancher"

	chartName = "rancher"
)

// Deployer installs the Rancher chart against in-memory cluster credentials.
type Deployer struct {
	cfg          config.RancherConfig
	actionConfig *action.Configuration
}

// NewDeployer creates a Deployer from kubeconfig bytes.
func NewDeployer(kubeconfig []byte, cfg config.RancherConfig) (*Deployer, error) {
	actionConfig := new(action.Configuration)
	restGetter := newRESTClientGetter(kubeconfig, Namespace)

	// Suppress helm debug output.
	if err := actionConfig.Init(restGetter, Namespace, "secret", func(string, ...interface{}) {}); err != nil {
		return nil, fmt.Errorf("failed to initialize helm action config: %w", err)
	}

	return &Deployer{cfg: cfg, actionConfig: actionConfig}, nil
}

// ReleaseExists reports whether the Rancher release is already installed.
func (d *Deployer) ReleaseExists() bool {
	histClient := action.NewHistory(d.actionConfig)
	histClient.Max = 1
	_, err := histClient.Run(ReleaseName)
	return err == nil
}

// Ensure installs Rancher unless the release already exists. It returns
// true when an install was performed. The rollout is awaited separately by
// the caller; the helm install itself does not block on readiness.
func (d *Deployer) Ensure(ctx context.Context, primaryIP string) (bool, error) {
	if d.ReleaseExists() {
		return false, nil
	}

	installClient := action.NewInstall(d.actionConfig)
	installClient.ReleaseName = ReleaseName
	installClient.Namespace = Namespace
	installClient.CreateNamespace = true
	installClient.Version = d.cfg.Version
	installClient.Wait = false
	installClient.Timeout = 10 * time.Minute

	rancherChart, err := d.loadChart()
	if err != nil {
		return false, fmt.Errorf("failed to load chart: %w", err)
	}

	if _, err := installClient.RunWithContext(ctx, rancherChart, Values(primaryIP, d.cfg)); err != nil {
		return false, fmt.Errorf("failed to install rancher: %w", err)
	}
	return true, nil
}

func (d *Deployer) loadChart() (*chart.Chart, error) {
	settings := cli.New()

	chartPath, err := repo.FindChartInRepoURL(
		d.cfg.RepoURL,
		chartName,
		d.cfg.Version,
		"", "", "",
		getter.All(settings),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find chart %s in repo %s: %w", chartName, d.cfg.RepoURL, err)
	}

	defer func() {
		_ = os.Remove(chartPath)
	}()

	return loader.Load(chartPath)
}

// ServerURL is the external HTTPS endpoint Rancher is reachable at.
func ServerURL(primaryIP string, nodePort int) string {
	return fmt.Sprintf("https://%s:%d", primaryIP, nodePort)
}

// Hostname is the nip.io name Rancher serves TLS for.
func Hostname(primaryIP string) string {
	return primaryIP + ".nip.io"
}

// Values builds the chart values for a single-node, HTTPS-only install.
func Values(primaryIP string, cfg config.RancherConfig) map[string]interface{} {
	return map[string]interface{}{
		"replicas": 1,
		"hostname": Hostname(primaryIP),
		"ingress": map[string]interface{}{
			"enabled": false,
			"tls": map[string]interface{}{
				"source": "secret",
			},
		},
		"service": map[string]interface{}{
			"type": "ClusterIP",
		},
		"global": map[string]interface{}{
			"cattle": map[string]interface{}{
				"psp": map[string]interface{}{
					"enabled": false,
				},
			},
		},
		"bootstrapPassword": cfg.BootstrapPassword,
		"extraEnv": []map[string]interface{}{
			{
				"name":  "CATTLE_SERVER_URL",
				"value": ServerURL(primaryIP, cfg.HTTPSNodePort),
			},
		},
	}
}
