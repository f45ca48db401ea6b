package main

import (
	"context"
	"os"
	"time"

	"parkwatch/internal/modules/stopwatch/adapter/out/rpc"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// server acknowledges every start request unless NAVSTART_REFUSE names a
// reason to refuse with.
type server struct {
	logger hclog.Logger
}

func (s *server) NavStart(_ context.Context, in *rpc.NavStartRequest) (*rpc.NavStartResponse, error) {
	requested := time.UnixMilli(in.RequestedAtUnixMS)
	if reason := os.Getenv("NAVSTART_REFUSE"); reason != "" {
		s.logger.Warn("refusing nav start", "requested_at", requested, "reason", reason)
		return &rpc.NavStartResponse{Accepted: false, Message: reason}, nil
	}
	s.logger.Info("nav start accepted", "requested_at", requested)
	return &rpc.NavStartResponse{Accepted: true, Message: "navigation started"}, nil
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{Name: "navstart", Output: os.Stderr, Level: hclog.Info, JSONFormat: true})
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: rpc.HandshakeConfig,
		Plugins:         rpc.PluginMap(&server{logger: logger}),
		GRPCServer:      plugin.DefaultGRPCServer,
		Logger:          logger,
	})
}
