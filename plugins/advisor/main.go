package main

import (
	"context"
	"fmt"
	"strings"

	adviserpc "brewlog/internal/modules/advice/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *adviserpc.Empty) (*adviserpc.Metadata, error) {
	return &adviserpc.Metadata{Name: "brewmind-tips", Version: "1.0.0", Model: "rules"}, nil
}

func (s *server) Advise(_ context.Context, in *adviserpc.AdviseRequest) (*adviserpc.AdviseResponse, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, fmt.Errorf("question is required")
	}
	return &adviserpc.AdviseResponse{Text: Advise(in.Phase, in.Question)}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: adviserpc.HandshakeConfig,
		Plugins:         adviserpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
