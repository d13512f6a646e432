package main

import (
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// sessionService is the health-check name the hosted session reports under.
// The empty name tracks the process itself.
const sessionService = "thronestar.Session"

type host struct {
	lis    net.Listener
	server *grpc.Server
	health *health.Server
}

func newHost(addr string, port int, withReflection bool) (*host, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		return nil, err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor, recoveryInterceptor))
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(sessionService, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	if withReflection {
		reflection.Register(srv)
		log.Info().Msg("gRPC reflection enabled")
	}
	return &host{lis: lis, server: srv, health: hs}, nil
}

func (h *host) sessionServing(up bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if up {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus(sessionService, status)
	log.Info().Str("service", sessionService).Str("status", status.String()).Msg("Health status changed")
}

func (h *host) serve() error {
	log.Info().Str("address", h.lis.Addr().String()).Msg("gRPC server listening")
	return h.server.Serve(h.lis)
}

// stop reports NOT_SERVING everywhere, waits drain for health checkers to
// notice, then stops gracefully.
func (h *host) stop(drain time.Duration) {
	h.health.Shutdown()
	time.Sleep(drain)
	log.Info().Msg("Gracefully stopping gRPC server")
	h.server.GracefulStop()
}
