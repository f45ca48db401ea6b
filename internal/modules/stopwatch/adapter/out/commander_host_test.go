package out_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	stopwatchout "parkwatch/internal/modules/stopwatch/adapter/out"
	"parkwatch/internal/platform/clock"
	apperrors "parkwatch/internal/platform/errors"
)

func TestCommanderHostWithoutBinary(t *testing.T) {
	t.Parallel()
	host := stopwatchout.NewCommanderHost("", clock.SystemClock{})
	ok, message, err := host.RequestStart(context.Background())
	if err != nil || ok || message != "commander not configured" {
		t.Fatalf("unexpected result ok=%v message=%q err=%v", ok, message, err)
	}
}

func TestCommanderHostMissingBinary(t *testing.T) {
	t.Parallel()
	host := stopwatchout.NewCommanderHost(filepath.Join(t.TempDir(), "absent"), clock.SystemClock{})
	defer host.Close()
	if _, _, err := host.RequestStart(context.Background()); err == nil {
		t.Fatalf("expected launch error for a missing binary")
	}
}

func TestCommanderHostExpiredDeadlineSkipsLaunch(t *testing.T) {
	t.Parallel()
	host := stopwatchout.NewCommanderHost(filepath.Join(t.TempDir(), "absent"), clock.SystemClock{})
	defer host.Close()
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, _, err := host.RequestStart(ctx)
	if !errors.Is(err, apperrors.ErrCommanderTimeout) {
		t.Fatalf("expected commander timeout, got %v", err)
	}
}

func TestCommanderHostLaunchHonoursDeadline(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the plugin binary")
	}
	binPath := filepath.Join(t.TempDir(), "silent")
	if err := os.WriteFile(binPath, []byte("#!/bin/sh\nexec sleep 10\n"), 0o755); err != nil {
		t.Fatalf("write plugin script: %v", err)
	}
	host := stopwatchout.NewCommanderHost(binPath, clock.SystemClock{})
	defer host.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	began := time.Now()
	_, _, err := host.RequestStart(ctx)
	if !errors.Is(err, apperrors.ErrCommanderTimeout) {
		t.Fatalf("expected commander timeout, got %v", err)
	}
	if waited := time.Since(began); waited > 2*time.Second {
		t.Fatalf("launch ignored the deadline, waited %v", waited)
	}
}

func TestCommanderHostIntegrationNavStartPlugin(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the navstart plugin")
	}
	binPath := buildNavStartPlugin(t)
	host := stopwatchout.NewCommanderHost(binPath, clock.SystemClock{})
	defer host.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for i := 0; i < 2; i++ {
		ok, message, err := host.RequestStart(ctx)
		if err != nil {
			t.Fatalf("request start: %v", err)
		}
		if !ok || message == "" {
			t.Fatalf("expected acknowledgement, got ok=%v message=%q", ok, message)
		}
	}
}

func buildNavStartPlugin(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "navstart")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/navstart")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build navstart plugin: %v\n%s", err, string(out))
	}
	return binPath
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
