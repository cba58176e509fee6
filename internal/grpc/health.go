package grpc

import (
	"context"
	"log/slog"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name the application reports its health under
const ServiceName = "stockboard"

// Probe checks one dependency
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthServer serves grpc.health.v1.Health; its status follows the probes
type HealthServer struct {
	server *health.Server
	probes []Probe
	logger *slog.Logger

	mu      sync.RWMutex
	failing map[string]error
}

// NewHealthServer creates a health server that reports NOT_SERVING until the
// first probe round passes.
func NewHealthServer(logger *slog.Logger, probes ...Probe) *HealthServer {
	s := &HealthServer{
		server:  health.NewServer(),
		probes:  probes,
		logger:  logger,
		failing: map[string]error{},
	}
	s.setStatus(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return s
}

// Register attaches the health service to a gRPC server
func (s *HealthServer) Register(registrar grpc.ServiceRegistrar) {
	grpc_health_v1.RegisterHealthServer(registrar, s.server)
}

// Probe runs every probe once and updates the served status.
// It returns true when all probes pass.
func (s *HealthServer) Probe(ctx context.Context) bool {
	failing := map[string]error{}
	for _, probe := range s.probes {
		if err := probe.Check(ctx); err != nil {
			failing[probe.Name] = err
		}
	}

	s.mu.Lock()
	previous := s.failing
	s.failing = failing
	s.mu.Unlock()

	for name, err := range failing {
		if _, known := previous[name]; !known {
			s.logger.Warn("⚠️ [Health] Probe failing", "probe", name, "error", err)
		}
	}
	for name := range previous {
		if _, still := failing[name]; !still {
			s.logger.Info("✅ [Health] Probe recovered", "probe", name)
		}
	}

	if len(failing) > 0 {
		s.setStatus(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		return false
	}

	s.setStatus(grpc_health_v1.HealthCheckResponse_SERVING)
	return true
}

// Failing returns the probes that failed in the last round
func (s *HealthServer) Failing() map[string]error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]error, len(s.failing))
	for name, err := range s.failing {
		out[name] = err
	}
	return out
}

// Shutdown marks every service NOT_SERVING so clients drain before the
// server stops.
func (s *HealthServer) Shutdown() {
	s.server.Shutdown()
}

func (s *HealthServer) setStatus(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	s.server.SetServingStatus("", status)
	s.server.SetServingStatus(ServiceName, status)
}
