package homepage

import (
	"reflect"
	"testing"
)

func TestMapServices(t *testing.T) {
	config := ServicesConfig{
		{
			"Infrastructure": []map[string]ServiceProps{
				{
					"Traefik": {
						Icon: "traefik.svg",
						Href: "https://traefik.domain.ext",
					},
				},
				{
					"AdGuard Home": {
						Icon: "adguard-home.svg",
						Href: "https://adguard.domain.ext",
					},
				},
			},
		},
	}

	groups, err := MapServices(config)
	if err != nil {
		t.Fatalf("MapServices() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("MapServices() returned %v groups, want 1", len(groups))
	}

	g := groups[0]
	if g.Name != "Infrastructure" {
		t.Errorf("group Name = %v, want Infrastructure", g.Name)
	}
	// List order is kept across separate service entries.
	want := []string{"https://traefik.domain.ext", "https://adguard.domain.ext"}
	if !reflect.DeepEqual(g.Items, want) {
		t.Errorf("group Items = %v, want %v", g.Items, want)
	}
	if g.ID != "" {
		t.Errorf("group ID = %q, ids are assigned on import", g.ID)
	}
}

func TestMapServicesEmptyConfig(t *testing.T) {
	groups, err := MapServices(ServicesConfig{})
	if err == nil {
		t.Error("MapServices() with empty config should return error")
	}
	if groups != nil {
		t.Errorf("MapServices() with empty config should return nil groups, got %v", len(groups))
	}
}

func TestMapServicesInvalidURL(t *testing.T) {
	config := ServicesConfig{
		{
			"Test": []map[string]ServiceProps{
				{"Invalid Service": {Href: "not-a-valid-url"}},
				{"Templated": {Href: ""}},
			},
		},
	}

	groups, err := MapServices(config)
	if err == nil {
		t.Error("MapServices() should return error when no valid services found")
	}
	if groups != nil {
		t.Errorf("MapServices() should return nil when no valid services, got %v groups", len(groups))
	}
}

func TestMapServicesMultipleGroups(t *testing.T) {
	config := ServicesConfig{
		{"Group1": []map[string]ServiceProps{{"Service1": {Href: "https://service1.example.com"}}}},
		{"Group2": []map[string]ServiceProps{{"Service2": {Href: "https://service2.example.com"}}}},
	}

	groups, err := MapServices(config)
	if err != nil {
		t.Fatalf("MapServices() error = %v", err)
	}
	if len(groups) != 2 || groups[0].Name != "Group1" || groups[1].Name != "Group2" {
		t.Errorf("MapServices() = %+v, want Group1 then Group2", groups)
	}
}

func TestMapBookmarks(t *testing.T) {
	config := BookmarksConfig{
		{
			"Developer": []map[string][]BookmarkEntry{
				{"Github": {{Abbr: "GH", Href: "https://github.com/"}}},
				{"Empty": {}},
				{"Broken": {{Href: "ftp://files.example.com"}}},
			},
		},
		{
			"Nothing usable": []map[string][]BookmarkEntry{
				{"Broken": {{Href: "/local/path"}}},
			},
		},
	}

	groups, err := MapBookmarks(config)
	if err != nil {
		t.Fatalf("MapBookmarks() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("MapBookmarks() returned %v groups, want 1", len(groups))
	}
	if !reflect.DeepEqual(groups[0].Items, []string{"https://github.com/"}) {
		t.Errorf("MapBookmarks() items = %v", groups[0].Items)
	}
}

func TestMapBookmarksEmpty(t *testing.T) {
	if _, err := MapBookmarks(BookmarksConfig{}); err == nil {
		t.Error("MapBookmarks() with empty config should return error")
	}
}
