package domain

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// All mutations return a new Configuration and leave the receiver intact,
// so a published snapshot is never modified behind a reader's back.

// AddGroup appends g. An empty id is generated from the name; an explicit
// id that already exists is rejected with ErrDuplicateID.
func (c Configuration) AddGroup(g LinkGroup) (Configuration, LinkGroup, error) {
	g = normalizeGroup(g)
	if g.Name == "" {
		return c, LinkGroup{}, invalidGroupf("group name is required")
	}

	if g.ID == "" {
		g.ID = c.generateID(g.Name)
	} else if c.indexOf(g.ID) >= 0 {
		return c, LinkGroup{}, duplicateIDf(g.ID)
	}

	out := c.Clone()
	out.Groups = append(out.Groups, g)
	return out, g.Clone(), nil
}

// RemoveGroup deletes the group with the given id.
func (c Configuration) RemoveGroup(id string) (Configuration, error) {
	i := c.indexOf(id)
	if i < 0 {
		return c, notFound(id)
	}

	out := c.Clone()
	out.Groups = append(out.Groups[:i], out.Groups[i+1:]...)
	return out, nil
}

// MoveGroup moves the group to position to. Out-of-range positions are
// clamped; the relative order of the other groups is preserved.
func (c Configuration) MoveGroup(id string, to int) (Configuration, error) {
	from := c.indexOf(id)
	if from < 0 {
		return c, notFound(id)
	}

	out := c.Clone()
	if to < 0 {
		to = 0
	}
	if to > len(out.Groups)-1 {
		to = len(out.Groups) - 1
	}
	if to == from {
		return out, nil
	}

	g := out.Groups[from]
	out.Groups = append(out.Groups[:from], out.Groups[from+1:]...)
	out.Groups = append(out.Groups[:to], append([]LinkGroup{g}, out.Groups[to:]...)...)
	return out, nil
}

// UpdateGroup replaces the name, items and application hint of the group
// identified by g.ID. Position and provenance are kept.
func (c Configuration) UpdateGroup(g LinkGroup) (Configuration, error) {
	g = normalizeGroup(g)
	i := c.indexOf(g.ID)
	if i < 0 {
		return c, notFound(g.ID)
	}
	if g.Name == "" {
		return c, invalidGroupf("group name is required")
	}

	out := c.Clone()
	cur := &out.Groups[i]
	cur.Name = g.Name
	cur.Items = g.Items
	cur.OpenWith = g.OpenWith
	return out, nil
}

// WithSource replaces every group with the given ones and records the
// page they came from.
func (c Configuration) WithSource(groups []LinkGroup, pageURL, pageName, projectName string) Configuration {
	out := Configuration{
		Groups:              make([]LinkGroup, 0, len(groups)),
		ScrapboxPageURL:     pageURL,
		ScrapboxPageName:    pageName,
		ScrapboxProjectName: projectName,
	}
	for _, g := range groups {
		out.Groups = append(out.Groups, normalizeGroup(g))
	}
	return out
}

// FillMissingIDs gives every group without an id one derived from its
// name. Hand-edited files often omit ids.
func (c Configuration) FillMissingIDs() Configuration {
	out := c.Clone()
	for i := range out.Groups {
		if strings.TrimSpace(out.Groups[i].ID) == "" {
			out.Groups[i].ID = out.derivedID(out.Groups[i].Name)
		}
	}
	return out
}

func normalizeGroup(g LinkGroup) LinkGroup {
	g = g.Clone()
	g.ID = strings.TrimSpace(g.ID)
	g.Name = strings.TrimSpace(g.Name)
	g.OpenWith = strings.TrimSpace(g.OpenWith)

	items := make([]string, 0, len(g.Items))
	for _, item := range g.Items {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	g.Items = items
	return g
}

// generateID derives an id from the name. When the slug is taken a short
// random suffix keeps it unique.
func (c Configuration) generateID(name string) string {
	base := Slug(name)
	if base == "" {
		base = "group"
	}
	id := base
	for c.indexOf(id) >= 0 {
		id = base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	return id
}

// derivedID is generateID with a counter suffix ("-2", "-3", ...), so
// the same file always decodes to the same ids.
func (c Configuration) derivedID(name string) string {
	base := Slug(name)
	if base == "" {
		base = "group"
	}
	id := base
	for n := 2; c.indexOf(id) >= 0; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

// Slug lowercases s and joins its letter/digit runs with dashes.
// Example: "My Project　Tools" -> "my-project-tools"
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
