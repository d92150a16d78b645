package ports

import "context"

type (
	// StoragePinger is the backend the readiness and health probes ping.
	StoragePinger interface {
		Ping(ctx context.Context) error
	}

	DependencyStatus struct {
		Healthy bool   `json:"healthy"`
		Message string `json:"message,omitempty"`
		Latency string `json:"latency,omitempty"`
		Breaker string `json:"breaker,omitempty"`
	}
)
