package out

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	adviserpc "brewlog/internal/modules/advice/adapter/out/rpc"
	"brewlog/internal/modules/advice/domain"
	adviceout "brewlog/internal/modules/advice/port/out"
)

const defaultStartTimeout = 3 * time.Second

// PluginAdvisor launches the advisor binary named by the manifest for each
// question. The binary's checksum is verified before every launch.
type PluginAdvisor struct {
	manifests    adviceout.ManifestStore
	startTimeout time.Duration
	logger       hclog.Logger
}

func NewPluginAdvisor(manifests adviceout.ManifestStore, logger hclog.Logger) *PluginAdvisor {
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel})
	}
	return &PluginAdvisor{manifests: manifests, startTimeout: defaultStartTimeout, logger: logger.Named("plugin")}
}

var (
	_ adviceout.Advisor       = (*PluginAdvisor)(nil)
	_ adviceout.HealthChecker = (*PluginAdvisor)(nil)
)

func (a *PluginAdvisor) Name() string { return "plugin" }

func (a *PluginAdvisor) Advise(ctx context.Context, query domain.Query) (string, error) {
	client, closeFn, err := a.connect(ctx)
	if err != nil {
		return "", err
	}
	defer closeFn()

	response, err := client.Advise(ctx, &adviserpc.AdviseRequest{
		SystemInstruction: domain.SystemInstruction,
		Phase:             query.Phase,
		Question:          query.Question,
		Context:           query.Context,
		Prompt:            query.Prompt(),
	})
	if err != nil {
		return "", fmt.Errorf("advise: %w", err)
	}
	return response.Text, nil
}

func (a *PluginAdvisor) Check(ctx context.Context) (domain.Metadata, error) {
	client, closeFn, err := a.connect(ctx)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	meta, err := client.GetMetadata(ctx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Model: meta.Model}, nil
}

func (a *PluginAdvisor) connect(ctx context.Context) (adviserpc.AdvisorClient, func(), error) {
	manifest, err := a.manifests.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !manifest.Enabled {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrPluginDisabled, manifest.Name)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return nil, nil, err
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  adviserpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          adviserpc.PluginMap(nil),
		Cmd:              exec.CommandContext(ctx, manifest.Binary),
		Managed:          true,
		StartTimeout:     a.startTimeout,
		Logger:           a.logger,
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start advisor plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(adviserpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense advisor plugin: %w", err)
	}
	typed, ok := raw.(adviserpc.AdvisorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("advisor rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}
