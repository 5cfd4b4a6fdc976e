package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "GRIDMAP_TEST_FRESH=from-file\nGRIDMAP_TEST_SET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GRIDMAP_TEST_SET", "from-env")
	t.Setenv("GRIDMAP_TEST_FRESH", "")
	os.Unsetenv("GRIDMAP_TEST_FRESH")

	if !LoadEnv(path) {
		t.Fatal("LoadEnv() = false for an existing file")
	}
	if got := os.Getenv("GRIDMAP_TEST_FRESH"); got != "from-file" {
		t.Errorf("GRIDMAP_TEST_FRESH = %q, want from-file", got)
	}
	if got := os.Getenv("GRIDMAP_TEST_SET"); got != "from-env" {
		t.Errorf("GRIDMAP_TEST_SET = %q, want from-env", got)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	if LoadEnv(filepath.Join(t.TempDir(), "absent.env")) {
		t.Error("LoadEnv() = true for a missing file")
	}
}

func TestTracerWithoutSetup(t *testing.T) {
	_, span := Tracer("test").Start(context.Background(), "noop")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("span should be a no-op before Setup")
	}
}
