package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"parkwatch/internal/modules/stopwatch/adapter/out/rpc"
	"parkwatch/internal/platform/clock"
	apperrors "parkwatch/internal/platform/errors"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	notConfigured       = "commander not configured"
)

// CommanderHost launches the commander plugin on first use and keeps it
// running. A failed call tears the plugin down so the next request
// relaunches it.
type CommanderHost struct {
	binary string
	clock  clock.Clock
	logger hclog.Logger

	mu     sync.Mutex
	client *plugin.Client
	rpc    rpc.CommanderClient
}

func NewCommanderHost(binary string, clk clock.Clock) *CommanderHost {
	return &CommanderHost{
		binary: binary,
		clock:  clk,
		logger: hclog.New(&hclog.LoggerOptions{Name: "commander", Output: io.Discard, Level: hclog.NoLevel}),
	}
}

func (h *CommanderHost) RequestStart(ctx context.Context) (bool, string, error) {
	if h.binary == "" {
		return false, notConfigured, nil
	}
	client, err := h.connect(ctx)
	if err != nil {
		if pastDeadline(ctx) {
			return false, "", fmt.Errorf("%w: plugin launch", apperrors.ErrCommanderTimeout)
		}
		return false, "", err
	}

	resp, err := client.NavStart(ctx, &rpc.NavStartRequest{RequestedAtUnixMS: h.clock.Now().UnixMilli()})
	if err != nil {
		h.Close()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, "", fmt.Errorf("%w: nav start", apperrors.ErrCommanderTimeout)
		}
		return false, "", fmt.Errorf("nav start: %w", err)
	}
	return resp.Accepted, resp.Message, nil
}

// connect returns the running plugin or launches one. The launch waits no
// longer than the deadline on ctx.
func (h *CommanderHost) connect(ctx context.Context) (rpc.CommanderClient, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rpc != nil && !h.client.Exited() {
		return h.rpc, nil
	}
	h.killLocked()

	startTimeout := defaultStartTimeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, context.DeadlineExceeded
		}
		startTimeout = min(startTimeout, remaining)
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              exec.Command(h.binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           h.logger,
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start commander plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense commander: %w", err)
	}
	typed, ok := raw.(rpc.CommanderClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("commander rpc client type mismatch")
	}
	h.client = client
	h.rpc = typed
	return typed, nil
}

// Close stops the plugin process if one is running.
func (h *CommanderHost) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.killLocked()
}

func (h *CommanderHost) killLocked() {
	if h.client != nil {
		h.client.Kill()
	}
	h.client = nil
	h.rpc = nil
}

func pastDeadline(ctx context.Context) bool {
	deadline, ok := ctx.Deadline()
	return ok && !time.Now().Before(deadline)
}
