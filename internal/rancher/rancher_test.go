package rancher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virthub/hubctl/internal/config"
)

func TestServerURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://192.168.1.50:30444", ServerURL("192.168.1.50", 30444))
}

func TestHostname(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "192.168.1.50.nip.io", Hostname("192.168.1.50"))
}

func TestValues(t *testing.T) {
	t.Parallel()

	cfg := config.RancherConfig{
		BootstrapPassword: "admin123",
		HTTPSNodePort:     30444,
	}
	values := Values("10.0.0.7", cfg)

	assert.Equal(t, 1, values["replicas"])
	assert.Equal(t, "10.0.0.7.nip.io", values["hostname"])
	assert.Equal(t, "admin123", values["bootstrapPassword"])

	ingress, ok := values["ingress"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, ingress["enabled"])
	tls, ok := ingress["tls"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "secret", tls["source"])

	service, ok := values["service"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ClusterIP", service["type"])

	extraEnv, ok := values["extraEnv"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, extraEnv, 1)
	assert.Equal(t, "CATTLE_SERVER_URL", extraEnv[0]["name"])
	assert.Equal(t, "https://10.0.0.7:30444", extraEnv[0]["value"])
}
