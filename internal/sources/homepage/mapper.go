package homepage

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
)

// MapServices turns every service group into a link group holding the
// service hrefs. Groups without a usable href are skipped.
func MapServices(config ServicesConfig) ([]domain.LinkGroup, error) {
	var groups []domain.LinkGroup

	for _, groupMap := range config {
		for _, groupName := range sortedKeys(groupMap) {
			g := domain.LinkGroup{Name: strings.TrimSpace(groupName), Items: []string{}}

			for _, serviceMap := range groupMap[groupName] {
				for _, serviceName := range sortedKeys(serviceMap) {
					if href, ok := validHref(serviceMap[serviceName].Href); ok {
						g.Items = append(g.Items, href)
					}
				}
			}

			if g.Name != "" && len(g.Items) > 0 {
				groups = append(groups, g)
			}
		}
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("no valid services found in homepage config")
	}
	return groups, nil
}

// MapBookmarks turns every bookmark category into a link group.
func MapBookmarks(config BookmarksConfig) ([]domain.LinkGroup, error) {
	var groups []domain.LinkGroup

	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			g := domain.LinkGroup{Name: strings.TrimSpace(categoryName), Items: []string{}}

			for _, bookmarkMap := range category[categoryName] {
				for _, bookmarkName := range sortedKeys(bookmarkMap) {
					// Each bookmark has a list with a single entry
					entries := bookmarkMap[bookmarkName]
					if len(entries) == 0 {
						continue
					}
					if href, ok := validHref(entries[0].Href); ok {
						g.Items = append(g.Items, href)
					}
				}
			}

			if g.Name != "" && len(g.Items) > 0 {
				groups = append(groups, g)
			}
		}
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in config")
	}
	return groups, nil
}

// Load reads the file of the given kind and maps it to groups.
func Load(path string, kind Kind) ([]domain.LinkGroup, error) {
	switch kind {
	case KindServices:
		config, err := LoadServices(path)
		if err != nil {
			return nil, err
		}
		return MapServices(config)
	case KindBookmarks, "":
		config, err := LoadBookmarks(path)
		if err != nil {
			return nil, err
		}
		return MapBookmarks(config)
	default:
		return nil, fmt.Errorf("unknown homepage file kind %q", kind)
	}
}

// validHref keeps absolute http(s) URLs only.
func validHref(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	if domain.ClassifyItem(href) != domain.KindWeb {
		return "", false
	}
	return href, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
