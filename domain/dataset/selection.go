package dataset

import (
	"statlab/domain/core"
)

// Role tags a selected column with its function in the requested analysis
type Role string

const (
	RoleDependent   Role = "dependent"
	RoleIndependent Role = "independent"
	RoleGrouping    Role = "grouping"
	RoleFeature     Role = "feature"
)

// ColumnRef is one entry of a selection: a column name plus its role
type ColumnRef struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Selection is an ordered set of column references submitted with a request
type Selection struct {
	Refs []ColumnRef `json:"refs"`
}

// Select builds a selection where every column carries the same role
func Select(role Role, names ...string) Selection {
	refs := make([]ColumnRef, len(names))
	for i, n := range names {
		refs[i] = ColumnRef{Name: n, Role: role}
	}
	return Selection{Refs: refs}
}

// With appends a reference and returns the extended selection
func (s Selection) With(name string, role Role) Selection {
	refs := make([]ColumnRef, len(s.Refs), len(s.Refs)+1)
	copy(refs, s.Refs)
	return Selection{Refs: append(refs, ColumnRef{Name: name, Role: role})}
}

// Names returns all selected column names in order
func (s Selection) Names() []string {
	names := make([]string, len(s.Refs))
	for i, r := range s.Refs {
		names[i] = r.Name
	}
	return names
}

// ByRole returns the names of all columns tagged with the given role, in order
func (s Selection) ByRole(role Role) []string {
	var names []string
	for _, r := range s.Refs {
		if r.Role == role {
			names = append(names, r.Name)
		}
	}
	return names
}

// First returns the first column tagged with the given role, if any
func (s Selection) First(role Role) (string, bool) {
	for _, r := range s.Refs {
		if r.Role == role {
			return r.Name, true
		}
	}
	return "", false
}

// Validate checks that every referenced column exists and that non-grouping
// columns are numeric. Grouping keys may be of any type.
func (s Selection) Validate(ds *Dataset) error {
	if len(s.Refs) == 0 {
		return core.NewInvalidConfigError("selection", "no columns selected")
	}
	for _, ref := range s.Refs {
		col, ok := ds.Column(ref.Name)
		if !ok {
			return core.NewColumnNotFoundError(ref.Name)
		}
		if ref.Role != RoleGrouping && col.Type != Numeric {
			return core.NewTypeMismatchError(ref.Name, string(col.Type), string(Numeric))
		}
	}
	return nil
}
