package reconcile

import (
	"fmt"
	"strings"
)

// Entity kinds and operations reported in warnings.
const (
	EntityTag      = "tag"
	EntityCategory = "category"
	EntityValue    = "value"

	OpList   = "list"
	OpInsert = "insert"
	OpDelete = "delete"
)

// Warning is one entity-level failure that was skipped during a pass.
type Warning struct {
	Entity   string
	Op       string
	Name     string
	Category string
	Err      error
}

func (w Warning) Error() string {
	var b strings.Builder
	b.WriteString(w.Op)
	b.WriteByte(' ')
	b.WriteString(w.Entity)
	if w.Name != "" {
		fmt.Fprintf(&b, " %q", w.Name)
	}
	if w.Category != "" && w.Entity == EntityValue {
		fmt.Fprintf(&b, " in category %q", w.Category)
	}
	if w.Err != nil {
		b.WriteString(": ")
		b.WriteString(w.Err.Error())
	}
	return b.String()
}

func (w Warning) Unwrap() error {
	return w.Err
}

// Result counts the mutations applied by one pass and collects every warning.
// A pass with warnings still applied everything else it could.
type Result struct {
	TagsInserted       int       `json:"tags_inserted"`
	TagsDeleted        int       `json:"tags_deleted"`
	CategoriesInserted int       `json:"categories_inserted"`
	CategoriesDeleted  int       `json:"categories_deleted"`
	ValuesInserted     int       `json:"values_inserted"`
	ValuesDeleted      int       `json:"values_deleted"`
	Warnings           []Warning `json:"-"`
}

// Mutations returns the total number of rows inserted or deleted.
func (r Result) Mutations() int {
	return r.TagsInserted + r.TagsDeleted +
		r.CategoriesInserted + r.CategoriesDeleted +
		r.ValuesInserted + r.ValuesDeleted
}

// Clean reports whether the pass completed without warnings.
func (r Result) Clean() bool {
	return len(r.Warnings) == 0
}

// WarningMessages renders the warnings as strings.
func (r Result) WarningMessages() []string {
	out := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		out = append(out, w.Error())
	}
	return out
}
