package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Path matching supports prefix matching (e.g., "/render/" matches "/render/{id}");
// the root path "/" only ever matches exactly.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Special case: liveness checks are unlimited
	if IsLiveness(path, method) {
		return &EndpointConfig{
			Limit:  0, // Unlimited
			Window: 0,
			Burst:  0,
		}
	}

	// Try exact match first
	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	// Try prefix match (for paths ending with "/")
	for i := range configs {
		config := &configs[i]
		if config.Method == method && config.Path != "/" && strings.HasSuffix(config.Path, "/") {
			if strings.HasPrefix(path, config.Path) {
				return config
			}
		}
	}

	// No match found
	return nil
}

// IsLiveness reports whether a request is a plain liveness check.
// Debug probes are keyed as DebugEndpoint by the caller and never match here.
func IsLiveness(path string, method string) bool {
	return method == "GET" && (path == "/" || path == "/health")
}
