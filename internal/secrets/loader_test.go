package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  s3cret\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(Source{Name: "api key", File: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("got %q", got)
	}
}

func TestLoadFilePrecedesValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(Source{File: path, Value: "from-value"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "from-file" {
		t.Errorf("got %q", got)
	}
}

func TestLoadEmptyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(Source{Name: "api key", File: path, Value: "unused"}); err == nil {
		t.Fatal("expected an error for an empty secret file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RETAILOR_TEST_SECRET", " env-secret ")

	got, err := Load(Source{Name: "api key", Env: "RETAILOR_TEST_SECRET"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "env-secret" {
		t.Errorf("got %q", got)
	}
}

func TestLoadErrorNamesTheEnvVar(t *testing.T) {
	t.Setenv("RETAILOR_TEST_SECRET", "")

	_, err := Load(Source{Name: "api key", Env: "RETAILOR_TEST_SECRET"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "RETAILOR_TEST_SECRET") {
		t.Errorf("error does not name the variable: %v", err)
	}
}

func TestLoadNothingConfigured(t *testing.T) {
	if _, err := Load(Source{Name: "api key"}); err == nil {
		t.Fatal("expected an error")
	}
}
