package models

import "slices"

// SnapshotCategory is one configured category with its permitted values.
type SnapshotCategory struct {
	Name   string   `json:"name" toml:"name" yaml:"name"`
	Values []string `json:"values" toml:"values" yaml:"values"`
}

// Snapshot is the desired state of the catalog reference tables.
//
// Folder and SaveDate are carried for the import workflow; reconciliation
// only looks at Tags and Categories.
type Snapshot struct {
	Folder     string             `json:"folder" toml:"folder" yaml:"folder"`
	SaveDate   bool               `json:"save_date" toml:"save_date" yaml:"save_date"`
	Categories []SnapshotCategory `json:"categories" toml:"categories" yaml:"categories"`
	Tags       []string           `json:"tags" toml:"tags" yaml:"tags"`
}

// Clone returns a deep copy so callers never share slices with the holder.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Folder:   s.Folder,
		SaveDate: s.SaveDate,
		Tags:     slices.Clone(s.Tags),
	}
	if s.Categories != nil {
		out.Categories = make([]SnapshotCategory, len(s.Categories))
		for i, cat := range s.Categories {
			out.Categories[i] = SnapshotCategory{Name: cat.Name, Values: slices.Clone(cat.Values)}
		}
	}
	return out
}

// Equal reports whether two snapshots describe the same configuration,
// including order.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Folder != other.Folder || s.SaveDate != other.SaveDate {
		return false
	}
	if !slices.Equal(s.Tags, other.Tags) {
		return false
	}
	return slices.EqualFunc(s.Categories, other.Categories, func(a, b SnapshotCategory) bool {
		return a.Name == b.Name && slices.Equal(a.Values, b.Values)
	})
}

// Category returns the configured category by exact name.
func (s Snapshot) Category(name string) (SnapshotCategory, bool) {
	for _, cat := range s.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return SnapshotCategory{}, false
}
