package reconcile

import (
	"context"
	"errors"
	"slices"
	"testing"

	"fileshelf/internal/models"
	"fileshelf/internal/store"
)

// flakyStore wraps a real store and fails selected operations.
type flakyStore struct {
	*store.Store
	failInsertTag   map[string]error
	failInsertValue map[string]error
	failListValues  error
}

func (f *flakyStore) InsertTag(ctx context.Context, name string) error {
	if err, ok := f.failInsertTag[name]; ok {
		return err
	}
	return f.Store.InsertTag(ctx, name)
}

func (f *flakyStore) InsertCategoryValue(ctx context.Context, id int64, value string) error {
	if err, ok := f.failInsertValue[value]; ok {
		return err
	}
	return f.Store.InsertCategoryValue(ctx, id, value)
}

func (f *flakyStore) ListCategoryValues(ctx context.Context, id int64) ([]string, error) {
	if f.failListValues != nil {
		return nil, f.failListValues
	}
	return f.Store.ListCategoryValues(ctx, id)
}

func TestReconcileContinuesPastEntityFailures(t *testing.T) {
	st := testStore(t)
	boom := errors.New("disk hiccup")
	fs := &flakyStore{
		Store:           st,
		failInsertTag:   map[string]error{"b": boom},
		failInsertValue: map[string]error{"2": boom},
	}
	e := NewEngine(fs, nil)

	res, err := e.Reconcile(context.Background(), models.Snapshot{
		Tags: []string{"a", "b", "c"},
		Categories: []models.SnapshotCategory{
			{Name: "x", Values: []string{"1", "2", "3"}},
			{Name: "y", Values: []string{"4"}},
		},
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", res.WarningMessages())
	}
	if res.TagsInserted != 2 || res.CategoriesInserted != 2 || res.ValuesInserted != 3 {
		t.Fatalf("unexpected counts: %+v", res)
	}

	tags, _ := st.ListTags(context.Background())
	if !slices.Equal(tags, []string{"a", "c"}) {
		t.Fatalf("expected [a c], got %v", tags)
	}
	if got := categoryValues(t, st, "y"); !slices.Equal(got, []string{"4"}) {
		t.Fatalf("expected later category to be reconciled, got %v", got)
	}
}

func TestReconcileFatalErrorAborts(t *testing.T) {
	st := testStore(t)
	fs := &flakyStore{
		Store:         st,
		failInsertTag: map[string]error{"b": store.ErrStoreUnavailable},
	}
	e := NewEngine(fs, nil)

	res, err := e.Reconcile(context.Background(), models.Snapshot{
		Tags:       []string{"a", "b", "c"},
		Categories: []models.SnapshotCategory{{Name: "x"}},
	})
	if !errors.Is(err, store.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if res.TagsInserted != 1 || res.CategoriesInserted != 0 {
		t.Fatalf("expected partial result before abort, got %+v", res)
	}
}

func TestReconcileListFailureSkipsCategory(t *testing.T) {
	st := testStore(t)
	e := NewEngine(st, nil)
	mustReconcile(t, e, models.Snapshot{
		Categories: []models.SnapshotCategory{{Name: "x", Values: []string{"1"}}},
	})

	fs := &flakyStore{Store: st, failListValues: errors.New("read failed")}
	res, err := NewEngine(fs, nil).Reconcile(context.Background(), models.Snapshot{
		Tags:       []string{"t"},
		Categories: []models.SnapshotCategory{{Name: "x", Values: []string{"2"}}},
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Op != OpList {
		t.Fatalf("expected one list warning, got %v", res.WarningMessages())
	}
	if res.TagsInserted != 1 {
		t.Fatalf("expected tag phase to run, got %+v", res)
	}
}

func TestWarningMessage(t *testing.T) {
	w := Warning{Entity: EntityValue, Op: OpInsert, Name: "Red", Category: "Color", Err: store.ErrDuplicateKey}
	want := `insert value "Red" in category "Color": duplicate key`
	if w.Error() != want {
		t.Fatalf("expected %q, got %q", want, w.Error())
	}
}
