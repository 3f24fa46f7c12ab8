// Package glossary is the searchable list of acronyms and terms used in the
// diagrams.
package glossary

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Category classifies an entry.
type Category string

// Categories.
const (
	CategoryRole        Category = "role"
	CategoryMeetingType Category = "meeting-type"
	CategoryResultCode  Category = "result-code"
	CategoryLeadType    Category = "lead-type"
	CategoryOther       Category = "other"

	// CategoryAll matches every category in [Filter].
	CategoryAll Category = "all"
)

// ErrUnknownCategory is returned by [ParseCategory].
var ErrUnknownCategory = errors.New("unknown category")

// Categories returns the categories in display order.
func Categories() []Category {
	return []Category{CategoryRole, CategoryMeetingType, CategoryResultCode, CategoryLeadType, CategoryOther}
}

// ParseCategory accepts a category name or "all" (also the empty string).
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(CategoryAll) {
		return CategoryAll, nil
	}

	c := Category(s)
	if !slices.Contains(Categories(), c) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}

	return c, nil
}

// Label is the section heading of c.
func (c Category) Label() string {
	switch c {
	case CategoryRole:
		return "Roles"
	case CategoryMeetingType:
		return "Meeting Types"
	case CategoryResultCode:
		return "Result Codes"
	case CategoryLeadType:
		return "Lead Types"
	case CategoryOther:
		return "Other Terms"
	default:
		return string(c)
	}
}

// Entry is one glossary term.
type Entry struct {
	Term       string
	Definition string
	Category   Category
	// Group orders entries inside a category. Empty means ungrouped.
	Group string
}

// Filter returns the entries whose term or definition contains search,
// ignoring case, restricted to category unless it is [CategoryAll]. Input
// order is kept.
func Filter(entries []Entry, search string, category Category) []Entry {
	needle := strings.ToLower(strings.TrimSpace(search))

	var out []Entry

	for _, e := range entries {
		if category != CategoryAll && category != "" && e.Category != category {
			continue
		}

		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Term), needle) &&
			!strings.Contains(strings.ToLower(e.Definition), needle) {
			continue
		}

		out = append(out, e)
	}

	return out
}

// OtherGroup collects entries of a grouped category whose group is empty or
// not one of the known sub-groups.
const OtherGroup = "Other"

// groupPriority is the fixed sub-group order.
var groupPriority = []string{"Cancelled", "No Sit", "Sit", "No Sale", "Sale", OtherGroup}

// Section is one category of grouped entries.
type Section struct {
	Category Category
	// Entries is set when no entry of the category has a group.
	Entries []Entry
	// SubGroups is set otherwise.
	SubGroups []SubGroup
}

// SubGroup is a named run of entries inside a section.
type SubGroup struct {
	Name    string
	Entries []Entry
}

// Group arranges entries into sections in category display order, skipping
// empty categories. A category where any entry has a group is split into
// sub-groups ordered by the fixed priority; entries without a recognised
// group go to [OtherGroup], which comes last.
func Group(entries []Entry) []Section {
	byCategory := make(map[Category][]Entry)

	var extra []Category

	for _, e := range entries {
		if _, ok := byCategory[e.Category]; !ok && !slices.Contains(Categories(), e.Category) {
			extra = append(extra, e.Category)
		}

		byCategory[e.Category] = append(byCategory[e.Category], e)
	}

	var sections []Section

	for _, c := range append(Categories(), extra...) {
		items := byCategory[c]
		if len(items) == 0 {
			continue
		}

		hasGroups := slices.ContainsFunc(items, func(e Entry) bool { return e.Group != "" })
		if !hasGroups {
			sections = append(sections, Section{Category: c, Entries: items})

			continue
		}

		sections = append(sections, Section{Category: c, SubGroups: subGroups(items)})
	}

	return sections
}

func subGroups(items []Entry) []SubGroup {
	var (
		order  []string
		byName = make(map[string][]Entry)
	)

	for _, e := range items {
		name := e.Group
		if !slices.Contains(groupPriority, name) {
			name = OtherGroup
		}

		if _, ok := byName[name]; !ok {
			order = append(order, name)
		}

		byName[name] = append(byName[name], e)
	}

	slices.SortFunc(order, func(a, b string) int {
		return slices.Index(groupPriority, a) - slices.Index(groupPriority, b)
	})

	groups := make([]SubGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, SubGroup{Name: name, Entries: byName[name]})
	}

	return groups
}
