package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"fileshelf/internal/catalog"
	"fileshelf/internal/importer"
	"fileshelf/internal/models"
	"fileshelf/internal/store"
)

func testApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	a := New(Options{
		DBPath:      filepath.Join(dir, "data", "fileshelf.db"),
		CatalogPath: filepath.Join(dir, "catalog.json"),
	})
	t.Cleanup(func() { a.Close() })
	return a, dir
}

func sampleSnapshot(dir string) models.Snapshot {
	return models.Snapshot{
		Folder: filepath.Join(dir, "managed"),
		Tags:   []string{"personal", "urgent"},
		Categories: []models.SnapshotCategory{
			{Name: "project", Values: []string{"alpha", "beta"}},
		},
	}
}

func TestLoadSnapshotBeforeConfig(t *testing.T) {
	a, _ := testApp(t)
	if _, err := a.LoadSnapshot(); !errors.Is(err, ErrNoConfigYet) {
		t.Fatalf("expected ErrNoConfigYet, got %v", err)
	}
	if _, err := a.Tags(context.Background()); !errors.Is(err, ErrNoConfigYet) {
		t.Fatalf("expected ErrNoConfigYet for tags, got %v", err)
	}
	if _, err := a.Import(context.Background(), importer.Request{SourcePath: "x"}); !errors.Is(err, ErrNoConfigYet) {
		t.Fatalf("expected ErrNoConfigYet for import, got %v", err)
	}
}

func TestStoreSnapshotOpensReconcilesAndPersists(t *testing.T) {
	a, dir := testApp(t)
	ctx := context.Background()
	snap := sampleSnapshot(dir)

	res, err := a.StoreSnapshot(ctx, snap)
	if err != nil {
		t.Fatalf("store snapshot: %v", err)
	}
	if res.Mutations() != 5 || !res.Clean() {
		t.Fatalf("unexpected result: %+v", res)
	}

	got, err := a.LoadSnapshot()
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if !got.Equal(snap) {
		t.Fatalf("live snapshot mismatch: %+v", got)
	}

	persisted, err := catalog.Load(a.CatalogPath())
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	if !persisted.Equal(snap) {
		t.Fatalf("persisted snapshot mismatch: %+v", persisted)
	}

	tags, err := a.Tags(ctx)
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if !slices.Equal(tags, []string{"personal", "urgent"}) {
		t.Fatalf("unexpected tags: %v", tags)
	}
}

func TestLoadSnapshotReturnsCopy(t *testing.T) {
	a, dir := testApp(t)
	if _, err := a.StoreSnapshot(context.Background(), sampleSnapshot(dir)); err != nil {
		t.Fatalf("store snapshot: %v", err)
	}
	got, _ := a.LoadSnapshot()
	got.Tags[0] = "mutated"
	again, _ := a.LoadSnapshot()
	if again.Tags[0] != "personal" {
		t.Fatalf("live snapshot was mutated through a copy: %v", again.Tags)
	}
}

func TestStoreSnapshotRejectsInvalid(t *testing.T) {
	a, _ := testApp(t)
	_, err := a.StoreSnapshot(context.Background(), models.Snapshot{Tags: []string{""}})
	if !errors.Is(err, catalog.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
	if _, err := a.LoadSnapshot(); !errors.Is(err, ErrNoConfigYet) {
		t.Fatalf("invalid snapshot must not become live, got %v", err)
	}
}

func TestStoreSnapshotUnavailableStore(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	a := New(Options{
		DBPath:      filepath.Join(blocker, "fileshelf.db"),
		CatalogPath: filepath.Join(dir, "catalog.json"),
	})

	_, err := a.StoreSnapshot(context.Background(), sampleSnapshot(dir))
	if !errors.Is(err, store.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "catalog.json")); !os.IsNotExist(err) {
		t.Fatal("catalog must not be persisted when the store is unavailable")
	}
}

func TestBootstrapLoadsPersistedCatalog(t *testing.T) {
	a, dir := testApp(t)
	ctx := context.Background()
	snap := sampleSnapshot(dir)
	if err := catalog.Save(a.CatalogPath(), snap); err != nil {
		t.Fatalf("save catalog: %v", err)
	}

	if err := a.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	got, err := a.LoadSnapshot()
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if !got.Equal(snap) {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	categories, err := a.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 1 || !slices.Equal(categories[0].Values, []string{"alpha", "beta"}) {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}

func TestBootstrapWithoutCatalog(t *testing.T) {
	a, _ := testApp(t)
	if err := a.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	info, err := a.Info(context.Background())
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Configured || info.StoreOpen {
		t.Fatalf("expected unconfigured app, got %+v", info)
	}
}

func TestApplySnapshotSkipsEqual(t *testing.T) {
	a, dir := testApp(t)
	ctx := context.Background()
	snap := sampleSnapshot(dir)
	if _, err := a.StoreSnapshot(ctx, snap); err != nil {
		t.Fatalf("store snapshot: %v", err)
	}

	_, applied, err := a.ApplySnapshot(ctx, snap)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if applied {
		t.Fatal("equal snapshot should be skipped")
	}

	changed := snap.Clone()
	changed.Tags = append(changed.Tags, "later")
	res, applied, err := a.ApplySnapshot(ctx, changed)
	if err != nil {
		t.Fatalf("apply changed: %v", err)
	}
	if !applied || res.TagsInserted != 1 {
		t.Fatalf("expected one tag inserted, got applied=%v %+v", applied, res)
	}

	// Apply does not persist.
	persisted, err := catalog.Load(a.CatalogPath())
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	if !persisted.Equal(snap) {
		t.Fatalf("apply must not rewrite the document: %+v", persisted)
	}
}

func TestImportScenario(t *testing.T) {
	a, dir := testApp(t)
	ctx := context.Background()
	if _, err := a.StoreSnapshot(ctx, sampleSnapshot(dir)); err != nil {
		t.Fatalf("store snapshot: %v", err)
	}

	source := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(source, []byte("pdf"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	file, err := a.Import(ctx, importer.Request{
		SourcePath: source,
		Tags:       []string{"urgent"},
		Values:     map[string]string{"project": "beta"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	detail, err := a.File(ctx, file.Path)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if detail == nil || detail.File.Name != "report.pdf" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if !slices.Equal(detail.Tags, []string{"urgent"}) || len(detail.Values) != 1 {
		t.Fatalf("unexpected associations: %+v", detail)
	}
	if _, err := os.Stat(filepath.Join(dir, "managed", file.Path, "report.pdf")); err != nil {
		t.Fatalf("expected copy in managed folder: %v", err)
	}

	missing, err := a.File(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown path, got %+v, %v", missing, err)
	}
}

func TestConcurrentCommands(t *testing.T) {
	a, dir := testApp(t)
	ctx := context.Background()
	base := sampleSnapshot(dir)
	if _, err := a.StoreSnapshot(ctx, base); err != nil {
		t.Fatalf("store snapshot: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 10; i++ {
		wg.Add(4)
		go func() {
			defer wg.Done()
			_, _, err := a.ApplySnapshot(ctx, base)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := a.LoadSnapshot()
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := a.Tags(ctx)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := a.Info(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent command: %v", err)
		}
	}
}
