package domain

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ItemKind tells the launcher how to hand an item to the OS.
type ItemKind string

const (
	KindWeb  ItemKind = "web"  // http:// or https://
	KindFile ItemKind = "file" // file:// URL
	KindPath ItemKind = "path" // anything else, treated as a filesystem path
)

// ClassifyItem looks only at the prefix; it never fails.
// Examples:
//   - "https://github.com" -> web
//   - "file:///Applications/Xcode.app" -> file
//   - "not-a-url" -> path
func ClassifyItem(item string) ItemKind {
	item = strings.TrimSpace(item)
	lower := strings.ToLower(item)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindWeb
	case strings.HasPrefix(lower, "file://"):
		return KindFile
	default:
		return KindPath
	}
}

// Target is an item resolved into something the OS can open: either a
// web URL or a local path.
type Target struct {
	Item string
	Kind ItemKind
	URL  *url.URL // set for web items
	Path string   // set for file and path items
}

// ResolveItem turns an item string into a Target.
func ResolveItem(item string) (Target, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return Target{}, fmt.Errorf("%w: empty item", ErrInvalidItem)
	}

	kind := ClassifyItem(item)
	t := Target{Item: item, Kind: kind}

	switch kind {
	case KindWeb:
		u, err := url.Parse(item)
		if err != nil || u.Host == "" {
			return Target{}, fmt.Errorf("%w: cannot parse URL %q", ErrInvalidItem, item)
		}
		t.URL = u
	case KindFile:
		t.Path = filePathFromURL(item)
	default:
		t.Path = expandHome(item)
	}
	return t, nil
}

// filePathFromURL decodes a file:// URL. Malformed escapes fall back to
// stripping the scheme, so "file:///Applications/Visual Studio Code.app"
// still works.
func filePathFromURL(item string) string {
	if u, err := url.Parse(item); err == nil && u.Path != "" {
		return u.Path
	}
	return item[len("file://"):]
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
