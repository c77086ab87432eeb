package headless

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderNodes(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "renderD128")
	locked := filepath.Join(dir, "renderD129")
	if err := os.WriteFile(ok, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(locked, nil, 0o000); err != nil {
		t.Fatal(err)
	}

	nodes, err := RenderNodes(filepath.Join(dir, "renderD*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Fatalf("found %d nodes, want 2", len(nodes))
	}
	if nodes[0].Path != ok || nodes[0].Err != nil {
		t.Errorf("first node = %+v, want accessible %s", nodes[0], ok)
	}
	if os.Geteuid() != 0 && nodes[1].Err == nil {
		t.Errorf("%s reported accessible", locked)
	}
	if got, err := RenderNodes(filepath.Join(dir, "card*")); err != nil || len(got) != 0 {
		t.Errorf("unexpected nodes %v, %v", got, err)
	}
}

func TestRenderNodesBadPattern(t *testing.T) {
	if _, err := RenderNodes("/dev/dri/renderD["); !errors.Is(err, filepath.ErrBadPattern) {
		t.Errorf("error = %v, want ErrBadPattern", err)
	}
}
