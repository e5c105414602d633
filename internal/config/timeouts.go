package config

import (
	"os"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	KubeconfigWait time.Duration // Timeout for the distribution to write its kubeconfig
	RancherRollout time.Duration // Timeout for the Rancher deployment rollout
	APIQuery       time.Duration // Timeout for individual cluster API queries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - HUBCTL_TIMEOUT_KUBECONFIG_WAIT (default: 2m)
//   - HUBCTL_TIMEOUT_RANCHER_ROLLOUT (default: 5m)
//   - HUBCTL_TIMEOUT_API_QUERY (default: 30s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		KubeconfigWait: parseDuration("HUBCTL_TIMEOUT_KUBECONFIG_WAIT", 2*time.Minute),
		RancherRollout: parseDuration("HUBCTL_TIMEOUT_RANCHER_ROLLOUT", 5*time.Minute),
		APIQuery:       parseDuration("HUBCTL_TIMEOUT_API_QUERY", 30*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}
