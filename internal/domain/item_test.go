package domain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestClassifyItem(t *testing.T) {
	tests := []struct {
		item     string
		expected ItemKind
	}{
		{"https://github.com", KindWeb},
		{"http://localhost:3000", KindWeb},
		{"HTTPS://EXAMPLE.COM", KindWeb},
		{"file:///Applications/Xcode.app", KindFile},
		{"/Users/me/notes.md", KindPath},
		{"not-a-url", KindPath},
		{"ftp://example.com", KindPath},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			if got := ClassifyItem(tt.item); got != tt.expected {
				t.Errorf("ClassifyItem(%q) = %v, want %v", tt.item, got, tt.expected)
			}
		})
	}
}

func TestResolveItem(t *testing.T) {
	tests := []struct {
		name     string
		item     string
		kind     ItemKind
		wantPath string
		wantHost string
	}{
		{name: "web", item: "https://github.com/climbedtower/topDoor", kind: KindWeb, wantHost: "github.com"},
		{name: "file url", item: "file:///Applications/Xcode.app", kind: KindFile, wantPath: "/Applications/Xcode.app"},
		{name: "file url with escapes", item: "file:///Applications/Visual%20Studio%20Code.app", kind: KindFile, wantPath: "/Applications/Visual Studio Code.app"},
		{name: "file url with bad escape", item: "file:///tmp/100%.txt", kind: KindFile, wantPath: "/tmp/100%.txt"},
		{name: "bare path", item: "not-a-url", kind: KindPath, wantPath: "not-a-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ResolveItem(tt.item)
			if err != nil {
				t.Fatalf("ResolveItem() error = %v", err)
			}
			if target.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", target.Kind, tt.kind)
			}
			if tt.wantPath != "" && target.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", target.Path, tt.wantPath)
			}
			if tt.wantHost != "" && (target.URL == nil || target.URL.Host != tt.wantHost) {
				t.Errorf("URL = %v, want host %q", target.URL, tt.wantHost)
			}
		})
	}
}

func TestResolveItemHomeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	target, err := ResolveItem("~/Projects")
	if err != nil {
		t.Fatalf("ResolveItem() error = %v", err)
	}
	if target.Path != filepath.Join(home, "Projects") {
		t.Errorf("Path = %q, want %q", target.Path, filepath.Join(home, "Projects"))
	}
}

func TestResolveItemInvalid(t *testing.T) {
	for _, item := range []string{"", "   ", "https://", "http://%zz"} {
		if _, err := ResolveItem(item); !errors.Is(err, ErrInvalidItem) {
			t.Errorf("ResolveItem(%q) error = %v, want ErrInvalidItem", item, err)
		}
	}
}
