// Package app holds the process-wide state: the live snapshot and the single
// store handle, each behind its own lock.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"fileshelf/internal/catalog"
	"fileshelf/internal/importer"
	"fileshelf/internal/models"
	"fileshelf/internal/reconcile"
	"fileshelf/internal/storage"
	"fileshelf/internal/store"
)

// ErrNoConfigYet means no snapshot has been stored or loaded.
var ErrNoConfigYet = errors.New("no configuration yet")

// Options configures an App.
type Options struct {
	DBPath       string
	CatalogPath  string
	IDLength     int
	OrphanPolicy importer.OrphanPolicy
	Logger       *slog.Logger
}

// App is created once per process. Its contents are replaced, the container
// never is.
//
// Lock order is always snapshotMu then storeMu.
type App struct {
	opts   Options
	logger *slog.Logger

	snapshotMu sync.Mutex
	snapshot   *models.Snapshot

	storeMu sync.Mutex
	store   *store.Store
	engine  *reconcile.Engine
}

// Info describes the live state.
type Info struct {
	DBPath      string      `json:"db_path"`
	CatalogPath string      `json:"catalog_path"`
	Configured  bool        `json:"configured"`
	Folder      string      `json:"folder,omitempty"`
	StoreOpen   bool        `json:"store_open"`
	Store       *store.Info `json:"store,omitempty"`
}

// New creates the state holder with no snapshot and an unopened store.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.IDLength <= 0 {
		opts.IDLength = store.DefaultFolderIDLength
	}
	if opts.OrphanPolicy == nil {
		opts.OrphanPolicy = importer.KeepOrphans{Logger: logger}
	}
	st := store.New()
	return &App{
		opts:   opts,
		logger: logger,
		store:  st,
		engine: reconcile.NewEngine(st, logger.With("component", "reconcile")),
	}
}

// Bootstrap loads the persisted catalog document, if any, opens the store
// and reconciles it. A missing document is not an error.
func (a *App) Bootstrap(ctx context.Context) error {
	snap, err := catalog.Load(a.opts.CatalogPath)
	if errors.Is(err, os.ErrNotExist) {
		a.logger.Info("no catalog document yet", "path", a.opts.CatalogPath)
		return nil
	}
	if err != nil {
		return err
	}

	a.snapshotMu.Lock()
	defer a.snapshotMu.Unlock()

	res, err := a.reconcileLocked(ctx, snap)
	if err != nil {
		return err
	}
	a.setSnapshotLocked(snap)
	a.logger.Info("catalog loaded",
		"path", a.opts.CatalogPath,
		"mutations", res.Mutations(),
		"warnings", len(res.Warnings))
	return nil
}

// LoadSnapshot returns a copy of the live snapshot.
func (a *App) LoadSnapshot() (models.Snapshot, error) {
	a.snapshotMu.Lock()
	defer a.snapshotMu.Unlock()
	if a.snapshot == nil {
		return models.Snapshot{}, ErrNoConfigYet
	}
	return a.snapshot.Clone(), nil
}

// StoreSnapshot opens the store if needed, reconciles it against snap,
// persists the catalog document and makes snap the live snapshot.
//
// Reconciliation warnings do not fail the call; they are returned in the
// result. A fatal store error leaves the live snapshot and document as they
// were.
func (a *App) StoreSnapshot(ctx context.Context, snap models.Snapshot) (reconcile.Result, error) {
	if err := catalog.Validate(snap); err != nil {
		return reconcile.Result{}, err
	}

	a.snapshotMu.Lock()
	defer a.snapshotMu.Unlock()

	res, err := a.reconcileLocked(ctx, snap)
	if err != nil {
		return res, err
	}
	if err := catalog.Save(a.opts.CatalogPath, snap); err != nil {
		return res, fmt.Errorf("persist catalog: %w", err)
	}
	a.setSnapshotLocked(snap)
	return res, nil
}

// ApplySnapshot reconciles snap and makes it live without persisting it.
// It reports false when snap equals the live snapshot and nothing was done.
func (a *App) ApplySnapshot(ctx context.Context, snap models.Snapshot) (reconcile.Result, bool, error) {
	if err := catalog.Validate(snap); err != nil {
		return reconcile.Result{}, false, err
	}

	a.snapshotMu.Lock()
	defer a.snapshotMu.Unlock()

	if a.snapshot != nil && a.snapshot.Equal(snap) {
		return reconcile.Result{}, false, nil
	}
	res, err := a.reconcileLocked(ctx, snap)
	if err != nil {
		return res, false, err
	}
	a.setSnapshotLocked(snap)
	return res, true, nil
}

// ReloadCatalog re-reads the catalog document and applies it.
func (a *App) ReloadCatalog(ctx context.Context) (reconcile.Result, bool, error) {
	snap, err := catalog.Load(a.opts.CatalogPath)
	if err != nil {
		return reconcile.Result{}, false, err
	}
	return a.ApplySnapshot(ctx, snap)
}

// Import copies a file into the live snapshot's managed folder and registers
// it with its associations.
func (a *App) Import(ctx context.Context, req importer.Request) (*models.File, error) {
	a.snapshotMu.Lock()
	defer a.snapshotMu.Unlock()
	if a.snapshot == nil {
		return nil, ErrNoConfigYet
	}
	folder := strings.TrimSpace(a.snapshot.Folder)
	if folder == "" {
		return nil, fmt.Errorf("%w: managed folder is not configured", importer.ErrFilesystemFailure)
	}
	saveDate := a.snapshot.SaveDate

	a.storeMu.Lock()
	defer a.storeMu.Unlock()

	lf, err := storage.NewLocalFolders(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", importer.ErrFilesystemFailure, err)
	}
	svc := importer.NewService(a.store, lf, importer.Options{
		IDLength: a.opts.IDLength,
		SaveDate: saveDate,
		Orphans:  a.opts.OrphanPolicy,
		Logger:   a.logger.With("component", "importer"),
	})
	return svc.Import(ctx, req)
}

// Tags lists stored tag names.
func (a *App) Tags(ctx context.Context) ([]string, error) {
	a.storeMu.Lock()
	defer a.storeMu.Unlock()
	if !a.store.IsOpen() {
		return nil, ErrNoConfigYet
	}
	return a.store.ListTags(ctx)
}

// Categories lists stored categories with their values.
func (a *App) Categories(ctx context.Context) ([]models.Category, error) {
	a.storeMu.Lock()
	defer a.storeMu.Unlock()
	if !a.store.IsOpen() {
		return nil, ErrNoConfigYet
	}
	return a.store.ListCategoriesWithValues(ctx)
}

// File returns a stored file with its associations, or nil if path is unknown.
func (a *App) File(ctx context.Context, path string) (*models.FileDetail, error) {
	a.storeMu.Lock()
	defer a.storeMu.Unlock()
	if !a.store.IsOpen() {
		return nil, ErrNoConfigYet
	}
	file, err := a.store.GetFile(ctx, path)
	if err != nil || file == nil {
		return nil, err
	}
	tags, err := a.store.ListFileTags(ctx, path)
	if err != nil {
		return nil, err
	}
	values, err := a.store.ListFileValues(ctx, path)
	if err != nil {
		return nil, err
	}
	return &models.FileDetail{File: *file, Tags: tags, Values: values}, nil
}

// Info reports paths, configuration state and store counts.
func (a *App) Info(ctx context.Context) (*Info, error) {
	a.snapshotMu.Lock()
	defer a.snapshotMu.Unlock()
	info := &Info{
		DBPath:      a.opts.DBPath,
		CatalogPath: a.opts.CatalogPath,
		Configured:  a.snapshot != nil,
	}
	if a.snapshot != nil {
		info.Folder = a.snapshot.Folder
	}

	a.storeMu.Lock()
	defer a.storeMu.Unlock()
	info.StoreOpen = a.store.IsOpen()
	if info.StoreOpen {
		storeInfo, err := a.store.Info(ctx)
		if err != nil {
			return nil, err
		}
		info.Store = storeInfo
	}
	return info, nil
}

// CatalogPath returns the catalog document location.
func (a *App) CatalogPath() string {
	return a.opts.CatalogPath
}

// Close closes the store handle.
func (a *App) Close() error {
	a.storeMu.Lock()
	defer a.storeMu.Unlock()
	return a.store.Close()
}

// reconcileLocked requires snapshotMu to be held.
func (a *App) reconcileLocked(ctx context.Context, snap models.Snapshot) (reconcile.Result, error) {
	a.storeMu.Lock()
	defer a.storeMu.Unlock()

	if !a.store.IsOpen() {
		if err := a.store.Open(a.opts.DBPath); err != nil {
			return reconcile.Result{}, err
		}
		a.logger.Info("store opened", "path", a.opts.DBPath)
	}
	return a.engine.Reconcile(ctx, snap)
}

func (a *App) setSnapshotLocked(snap models.Snapshot) {
	clone := snap.Clone()
	a.snapshot = &clone
}
