package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/querylab/benchcore/internal/store"
)

func writeSuiteFile(t *testing.T, endpoint string) string {
	t.Helper()
	content := `
name: cli test run
config:
  duration: 200ms
  concurrency: 2
  warmupRequests: 1
  httpTimeoutSeconds: 5
variants:
  - name: only
    scenario: smoke
    endpoint: ` + endpoint + `
`
	path := filepath.Join(t.TempDir(), "suite.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunSuite_SavesCompletedRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	storePath = filepath.Join(t.TempDir(), "runs.db")
	runNoSave = false
	defer func() { storePath = "" }()

	if err := runSuite(context.Background(), writeSuiteFile(t, srv.URL)); err != nil {
		t.Fatalf("runSuite() error = %v", err)
	}

	db, err := store.Open(storePath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	runs, err := db.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved runs = %d, want 1", len(runs))
	}
	if runs[0].Name != "cli test run" {
		t.Errorf("run name = %q", runs[0].Name)
	}
	if len(runs[0].Runs) != 1 || runs[0].Runs[0].Variant != "only" {
		t.Errorf("unexpected endpoint runs: %+v", runs[0].Runs)
	}
}

func TestRunSuite_NoSave(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	storePath = filepath.Join(t.TempDir(), "runs.db")
	runNoSave = true
	defer func() {
		storePath = ""
		runNoSave = false
	}()

	if err := runSuite(context.Background(), writeSuiteFile(t, srv.URL)); err != nil {
		t.Fatalf("runSuite() error = %v", err)
	}

	if _, err := os.Stat(storePath); !os.IsNotExist(err) {
		t.Error("store file created despite --no-save")
	}
}

func TestRunSuite_MissingFile(t *testing.T) {
	if err := runSuite(context.Background(), "/does/not/exist.yaml"); err == nil {
		t.Fatal("runSuite() with missing file succeeded, want error")
	}
}

func TestRunSuite_FailedVariantNotSaved(t *testing.T) {
	storePath = filepath.Join(t.TempDir(), "runs.db")
	runNoSave = false
	defer func() { storePath = "" }()

	// Unusable endpoint: the orchestration aborts and nothing is persisted.
	if err := runSuite(context.Background(), writeSuiteFile(t, "ftp://wrong-scheme/")); err == nil {
		t.Fatal("runSuite() with unusable endpoint succeeded, want error")
	}

	if _, err := os.Stat(storePath); !os.IsNotExist(err) {
		t.Error("store file created for an aborted run")
	}
}
