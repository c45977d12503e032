package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v1.2.3"

	got := String()
	if !strings.HasPrefix(got, "topdoor v1.2.3 (commit=") {
		t.Errorf("String() = %q", got)
	}
	if !strings.Contains(got, "go="+GoVersion) {
		t.Errorf("String() = %q, want go version", got)
	}
}
