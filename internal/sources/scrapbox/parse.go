package scrapbox

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
)

var (
	webURLRe     = regexp.MustCompile(`https?://[^\s\]]+`)
	bracketRe    = regexp.MustCompile(`^\[(.+)\]$`)
	codeHeaderRe = regexp.MustCompile(`^code:\S+\.ya?ml$`)
)

// yamlGroup is one entry of a `code:*.yaml` block.
type yamlGroup struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Items    []string `yaml:"items"`
	OpenWith string   `yaml:"openWith"`
}

// Parse derives groups from a page. A YAML code block, when present,
// defines the groups; otherwise the outline does. Every group is tagged
// with the page URL.
func Parse(page *Page, ref PageRef) ([]domain.LinkGroup, error) {
	if page == nil {
		return nil, fmt.Errorf("%w: empty page", domain.ErrSourceFetchFailure)
	}

	lines := make([]string, 0, len(page.Lines))
	for _, l := range page.Lines {
		lines = append(lines, l.Text)
	}
	// The first line is always the title.
	if len(lines) > 0 {
		lines = lines[1:]
	}

	var groups []domain.LinkGroup
	if block, ok := findYAMLBlock(lines); ok {
		parsed, err := parseYAML(block)
		if err != nil {
			return nil, err
		}
		groups = parsed
	} else {
		groups = parseOutline(lines)
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no groups on page %q", domain.ErrSourceFetchFailure, ref.Page)
	}

	assignIDs(groups, ref.Slug())
	for i := range groups {
		groups[i].SourcePageURL = ref.URL
	}
	return groups, nil
}

// assignIDs keeps the first use of every explicit id and gives the
// remaining groups "<prefix>-<n>", starting n at the group's position
// and stepping past ids already taken.
func assignIDs(groups []domain.LinkGroup, prefix string) {
	taken := make(map[string]bool, len(groups))
	keep := make([]bool, len(groups))
	for i, g := range groups {
		if g.ID != "" && !taken[g.ID] {
			taken[g.ID] = true
			keep[i] = true
		}
	}

	for i := range groups {
		if keep[i] {
			continue
		}
		n := i + 1
		id := fmt.Sprintf("%s-%d", prefix, n)
		for taken[id] {
			n++
			id = fmt.Sprintf("%s-%d", prefix, n)
		}
		taken[id] = true
		groups[i].ID = id
	}
}

// findYAMLBlock returns the dedented body of the first code:*.yaml block.
func findYAMLBlock(lines []string) (string, bool) {
	for i, line := range lines {
		depth := indentOf(line)
		if !codeHeaderRe.MatchString(strings.TrimSpace(line)) {
			continue
		}

		var body []string
		for _, l := range lines[i+1:] {
			if strings.TrimSpace(l) != "" && indentOf(l) <= depth {
				break
			}
			body = append(body, dedent(l, depth+1))
		}
		return strings.Join(body, "\n"), true
	}
	return "", false
}

func parseYAML(block string) ([]domain.LinkGroup, error) {
	var entries []yamlGroup
	if err := yaml.Unmarshal([]byte(block), &entries); err != nil {
		return nil, fmt.Errorf("%w: yaml block: %v", domain.ErrSourceFetchFailure, err)
	}

	groups := make([]domain.LinkGroup, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		items := make([]string, 0, len(e.Items))
		for _, item := range e.Items {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		groups = append(groups, domain.LinkGroup{
			ID:       domain.Slug(e.ID),
			Name:     name,
			Items:    items,
			OpenWith: strings.TrimSpace(e.OpenWith),
		})
	}
	return groups, nil
}

// parseOutline turns top-level lines into groups and the indented lines
// below them into items. Headers without items are dropped.
func parseOutline(lines []string) []domain.LinkGroup {
	var groups []domain.LinkGroup
	var cur *domain.LinkGroup

	flush := func() {
		if cur != nil && len(cur.Items) > 0 {
			groups = append(groups, *cur)
		}
		cur = nil
	}

	for _, line := range lines {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if indentOf(line) == 0 {
			flush()
			cur = &domain.LinkGroup{Name: headerName(text), Items: []string{}}
			continue
		}
		if cur == nil {
			continue
		}
		cur.Items = append(cur.Items, extractItems(text)...)
	}
	flush()
	return groups
}

// headerName strips Scrapbox link or decoration brackets: "[Dev]" and
// "[* Dev]" both become "Dev".
func headerName(text string) string {
	if m := bracketRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimLeft(m[1], "*/-_ ")
	}
	return strings.TrimSpace(text)
}

// extractItems finds launchable items on one indented line. Local paths
// take the whole line since they may contain spaces.
func extractItems(text string) []string {
	if m := bracketRe.FindStringSubmatch(text); m != nil && isLocal(m[1]) {
		text = m[1]
	}
	if isLocal(text) {
		return []string{text}
	}
	return webURLRe.FindAllString(text, -1)
}

func isLocal(s string) bool {
	return strings.HasPrefix(s, "file://") || strings.HasPrefix(s, "/") || strings.HasPrefix(s, "~/")
}

// indentOf counts leading spaces, tabs and full-width spaces.
func indentOf(line string) int {
	n := 0
	for _, r := range line {
		if r != ' ' && r != '\t' && r != '　' {
			break
		}
		n++
	}
	return n
}

func dedent(line string, n int) string {
	for i := 0; i < n && line != ""; i++ {
		switch {
		case strings.HasPrefix(line, " "), strings.HasPrefix(line, "\t"):
			line = line[1:]
		case strings.HasPrefix(line, "　"):
			line = line[len("　"):]
		default:
			return line
		}
	}
	return line
}
