package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "parkwatch.yaml")
	if err := os.WriteFile(cfgPath, []byte("log:\n  level: error\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestZonesListUsesCourseLayout(t *testing.T) {
	out, err := runRoot(t, "zones", "list")
	if err != nil {
		t.Fatalf("zones list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 || !strings.Contains(lines[0], "scan_qr_code") || !strings.Contains(lines[3], "parkpoint_3") {
		t.Fatalf("unexpected zone listing:\n%s", out)
	}
}

func TestZonesClassify(t *testing.T) {
	out, err := runRoot(t, "zones", "classify", "0", "-1.3")
	if err != nil {
		t.Fatalf("zones classify: %v", err)
	}
	if strings.TrimSpace(out) != "parkpoint_1 (park)" {
		t.Fatalf("unexpected classification %q", out)
	}

	out, err = runRoot(t, "zones", "classify", "--", "-0.3", "-1.3")
	if err != nil {
		t.Fatalf("zones classify with negative x: %v", err)
	}
	if strings.TrimSpace(out) != "parkpoint_1 (park)" {
		t.Fatalf("unexpected classification %q", out)
	}

	if _, err := runRoot(t, "zones", "classify", "east", "1"); err == nil {
		t.Fatalf("expected error for non-numeric coordinate")
	}
}
