// Package reconcile converges the reference tables of the catalog store
// (tags, categories, category values) onto a desired snapshot.
package reconcile

import (
	"context"
	"log/slog"
	"slices"

	"fileshelf/internal/models"
	"fileshelf/internal/store"
)

// Engine applies snapshots to a reference store.
type Engine struct {
	store  store.ReferenceStore
	logger *slog.Logger
}

// NewEngine creates an engine. A nil logger falls back to slog.Default.
func NewEngine(st store.ReferenceStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: st, logger: logger}
}

// pass carries the state of one Reconcile call.
type pass struct {
	ctx    context.Context
	store  store.ReferenceStore
	logger *slog.Logger
	result Result
	fatal  error
}

// Reconcile mutates the store so its tags, categories and category values
// match snap. Deletes run before inserts within each phase. Entity-level
// failures are collected as warnings and the pass continues; only a store
// that is unusable as a whole (see store.IsFatal) aborts with an error.
//
// The pass is not transactional: writes applied before an abort stay.
func (e *Engine) Reconcile(ctx context.Context, snap models.Snapshot) (Result, error) {
	p := &pass{ctx: ctx, store: e.store, logger: e.logger}

	p.tags(snap.Tags)
	if p.fatal == nil {
		p.categories(snap.Categories)
	}

	if p.fatal != nil {
		e.logger.Error("reconcile aborted", "error", p.fatal, "mutations", p.result.Mutations())
		return p.result, p.fatal
	}
	if len(p.result.Warnings) > 0 {
		e.logger.Warn("reconcile completed with warnings",
			"warnings", len(p.result.Warnings),
			"mutations", p.result.Mutations())
	} else {
		e.logger.Debug("reconcile completed", "mutations", p.result.Mutations())
	}
	return p.result, nil
}

// fail records err as a warning, or as the fatal error when the store is
// unusable. It reports whether the pass should stop.
func (p *pass) fail(w Warning) bool {
	if store.IsFatal(w.Err) {
		p.fatal = w.Err
		return true
	}
	p.logger.Warn("reconcile skipped entity",
		"entity", w.Entity,
		"op", w.Op,
		"name", w.Name,
		"category", w.Category,
		"error", w.Err)
	p.result.Warnings = append(p.result.Warnings, w)
	return false
}

func (p *pass) tags(desired []string) {
	current, err := p.store.ListTags(p.ctx)
	if err != nil {
		p.fail(Warning{Entity: EntityTag, Op: OpList, Err: err})
		return
	}

	for _, name := range current {
		if slices.Contains(desired, name) {
			continue
		}
		if err := p.store.DeleteTag(p.ctx, name); err != nil {
			if p.fail(Warning{Entity: EntityTag, Op: OpDelete, Name: name, Err: err}) {
				return
			}
			continue
		}
		p.result.TagsDeleted++
	}

	for _, name := range desired {
		if slices.Contains(current, name) {
			continue
		}
		if err := p.store.InsertTag(p.ctx, name); err != nil {
			if p.fail(Warning{Entity: EntityTag, Op: OpInsert, Name: name, Err: err}) {
				return
			}
			continue
		}
		p.result.TagsInserted++
	}
}

func (p *pass) categories(desired []models.SnapshotCategory) {
	current, err := p.store.ListCategories(p.ctx)
	if err != nil {
		p.fail(Warning{Entity: EntityCategory, Op: OpList, Err: err})
		return
	}

	wanted := func(name string) bool {
		return slices.ContainsFunc(desired, func(c models.SnapshotCategory) bool { return c.Name == name })
	}
	existing := make(map[string]int64, len(current))
	for _, c := range current {
		if wanted(c.Name) {
			existing[c.Name] = c.ID
			continue
		}
		if err := p.store.DeleteCategory(p.ctx, c.ID); err != nil {
			if p.fail(Warning{Entity: EntityCategory, Op: OpDelete, Name: c.Name, Err: err}) {
				return
			}
			continue
		}
		p.result.CategoriesDeleted++
	}

	diffed := make(map[string]bool, len(existing))
	for _, cat := range desired {
		id, ok := existing[cat.Name]
		if !ok {
			if !p.insertCategory(cat) {
				return
			}
			continue
		}
		if diffed[cat.Name] {
			if p.fail(Warning{Entity: EntityCategory, Op: OpInsert, Name: cat.Name, Err: duplicateInSnapshot}) {
				return
			}
			continue
		}
		diffed[cat.Name] = true
		if !p.values(id, cat) {
			return
		}
	}
}

// insertCategory adds a category and all its values. It returns false when
// the pass must stop.
func (p *pass) insertCategory(cat models.SnapshotCategory) bool {
	id, err := p.store.InsertCategory(p.ctx, cat.Name)
	if err != nil {
		return !p.fail(Warning{Entity: EntityCategory, Op: OpInsert, Name: cat.Name, Err: err})
	}
	p.result.CategoriesInserted++

	for _, value := range cat.Values {
		if !p.insertValue(id, cat.Name, value) {
			return false
		}
	}
	return true
}

// values runs the value diff for a category present in both the store and
// the snapshot. It returns false when the pass must stop.
func (p *pass) values(id int64, cat models.SnapshotCategory) bool {
	current, err := p.store.ListCategoryValues(p.ctx, id)
	if err != nil {
		return !p.fail(Warning{Entity: EntityValue, Op: OpList, Category: cat.Name, Err: err})
	}

	for _, value := range current {
		if slices.Contains(cat.Values, value) {
			continue
		}
		if err := p.store.DeleteCategoryValue(p.ctx, id, value); err != nil {
			if p.fail(Warning{Entity: EntityValue, Op: OpDelete, Name: value, Category: cat.Name, Err: err}) {
				return false
			}
			continue
		}
		p.result.ValuesDeleted++
	}

	for _, value := range cat.Values {
		if slices.Contains(current, value) {
			continue
		}
		if !p.insertValue(id, cat.Name, value) {
			return false
		}
	}
	return true
}

func (p *pass) insertValue(id int64, category, value string) bool {
	if err := p.store.InsertCategoryValue(p.ctx, id, value); err != nil {
		return !p.fail(Warning{Entity: EntityValue, Op: OpInsert, Name: value, Category: category, Err: err})
	}
	p.result.ValuesInserted++
	return true
}
