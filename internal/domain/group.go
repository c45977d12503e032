package domain

// LinkGroup is a named, ordered collection of launchable items.
// config.json calls it a "project" and the JSON keys keep that vocabulary
// so existing files stay readable.
type LinkGroup struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is unique within one Configuration and never changes once set.
	ID string `json:"id"`

	// Name is the display label.
	Name string `json:"name"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Items are launched (and displayed) in this order.
	// Each item is http(s)://..., file://... or a bare filesystem path.
	Items []string `json:"items"`

	// OpenWith optionally names the application used for file items.
	OpenWith string `json:"openWith,omitempty"`

	// ─────────────────────────────
	// Provenance
	// ─────────────────────────────

	// SourcePageURL links back to the external page this group was
	// imported from, if any.
	SourcePageURL string `json:"scrapboxPage,omitempty"`
}

// Clone returns a deep copy so snapshots never share item slices.
func (g LinkGroup) Clone() LinkGroup {
	out := g
	if g.Items != nil {
		out.Items = make([]string, len(g.Items))
		copy(out.Items, g.Items)
	}
	return out
}

// Configuration is the whole persisted state: the ordered list of groups
// plus the external page it was last synchronised from.
type Configuration struct {
	// Groups keep insertion order, which is also display order.
	Groups []LinkGroup `json:"projects"`

	ScrapboxPageURL     string `json:"scrapboxPageURL,omitempty"`
	ScrapboxPageName    string `json:"scrapboxPageName,omitempty"`
	ScrapboxProjectName string `json:"scrapboxProjectName,omitempty"`
}

// Clone returns a deep copy of the configuration.
func (c Configuration) Clone() Configuration {
	out := c
	if c.Groups == nil {
		return out
	}
	out.Groups = make([]LinkGroup, len(c.Groups))
	for i, g := range c.Groups {
		out.Groups[i] = g.Clone()
	}
	return out
}

// HasSource reports whether the configuration was imported from a page.
func (c Configuration) HasSource() bool {
	return c.ScrapboxPageURL != ""
}

// Group returns the group with the given id.
func (c Configuration) Group(id string) (LinkGroup, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.Groups[i].Clone(), true
	}
	return LinkGroup{}, false
}

// Validate reports empty or duplicated ids.
func (c Configuration) Validate() error {
	seen := make(map[string]bool, len(c.Groups))
	for i, g := range c.Groups {
		if g.ID == "" {
			return invalidGroupf("group %d has an empty id", i)
		}
		if seen[g.ID] {
			return duplicateIDf(g.ID)
		}
		seen[g.ID] = true
	}
	return nil
}

func (c Configuration) indexOf(id string) int {
	for i, g := range c.Groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// Sample group constants used by DefaultConfiguration.
const (
	DefaultGroupID   = "sample"
	DefaultGroupName = "Sample Project"
)

// DefaultConfiguration is the static content written when no usable
// configuration exists on disk: one sample group with a web URL and an
// application bundle.
func DefaultConfiguration() Configuration {
	return Configuration{
		Groups: []LinkGroup{
			{
				ID:   DefaultGroupID,
				Name: DefaultGroupName,
				Items: []string{
					"https://github.com",
					"file:///Applications/Xcode.app",
				},
			},
		},
	}
}
