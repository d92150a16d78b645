package runtime

import "net"

type ServiceOption func(*Service)

// WithListener serves on an already bound listener instead of the configured address.
func WithListener(listener net.Listener) ServiceOption {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithDependencyOptions replaces the default dependency graph.
func WithDependencyOptions(opts ...DependencyOption) ServiceOption {
	return func(s *Service) {
		s.depOptions = opts
	}
}
