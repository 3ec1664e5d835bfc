package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"usethis-backend/internal/api/grpc/interceptor"
)

// ServiceName is the name reported by the health service.
const ServiceName = "usethis.v1.Marketplace"

// Server is the gRPC side of the process: health checks and reflection.
type Server struct {
	*grpc.Server
	Health *health.Server
}

func NewServer(auth interceptor.Authenticator) *Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptor.Logging(),
			interceptor.NewAuthInterceptor(auth).Unary(),
		),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	// Register reflection service for grpcurl
	reflection.Register(s)

	return &Server{Server: s, Health: hs}
}

// Shutdown flips health to NOT_SERVING and drains in-flight calls.
func (s *Server) Shutdown() {
	s.Health.Shutdown()
	s.GracefulStop()
}
