package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/thirdparty/internal/reactor"
)

func TestDiscover(t *testing.T) {
	tests := []struct {
		name   string
		marker string
	}{
		{"build manifest", reactor.DefaultManifest},
		{"config file", FileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if err := os.WriteFile(filepath.Join(root, tt.marker), []byte("{}\n"), 0644); err != nil {
				t.Fatal(err)
			}
			nested := filepath.Join(root, "core", "src", "main")
			if err := os.MkdirAll(nested, 0755); err != nil {
				t.Fatal(err)
			}

			got, err := Discover(nested)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			want, _ := filepath.EvalSymlinks(root)
			if resolved, _ := filepath.EvalSymlinks(got); resolved != want {
				t.Errorf("Discover() = %q, want %q", got, root)
			}
		})
	}
}

func TestDiscover_NearestWins(t *testing.T) {
	root := t.TempDir()
	module := filepath.Join(root, "web")
	if err := os.MkdirAll(module, 0755); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{root, module} {
		if err := os.WriteFile(filepath.Join(dir, reactor.DefaultManifest), []byte("modules: []\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Discover(module)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got != module {
		t.Errorf("Discover() = %q, want %q", got, module)
	}
}

func TestDiscover_DirectoryMarkerIgnored(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, FileName), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := Discover(root)
	if err == nil {
		// A real project further up the temp path would be found; nothing to assert then.
		t.Skip("a project marker exists above the temp directory")
	}
	if !errors.Is(err, ErrNoProject) {
		t.Errorf("Discover() error = %v, want ErrNoProject", err)
	}
}
