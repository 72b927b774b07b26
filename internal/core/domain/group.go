package domain

import "strings"

// Group is a namespace holding zero or more projects.
type Group struct {
	// ID is the numeric ID or URL-encodable full path of the group.
	ID string `json:"id"`

	// Name is the display name. Equals ID when the group was not fetched.
	Name string `json:"name"`
}

// DisplayName returns Name, falling back to ID.
func (g Group) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}

// ParseGroupSelector splits a comma-separated list of group IDs.
// Entries are trimmed and empty entries dropped. The returned groups
// use the ID as their name.
func ParseGroupSelector(selector string) []Group {
	parts := strings.Split(selector, ",")
	groups := make([]Group, 0, len(parts))
	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		groups = append(groups, Group{ID: id, Name: id})
	}
	return groups
}
