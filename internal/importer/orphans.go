package importer

import (
	"context"
	"log/slog"

	"fileshelf/internal/storage"
)

// OrphanPolicy decides what happens to a copied file whose database insert
// failed.
type OrphanPolicy interface {
	HandleOrphan(ctx context.Context, st storage.Storage, folder string, cause error)
}

// KeepOrphans leaves the copy in managed storage and logs it.
type KeepOrphans struct {
	Logger *slog.Logger
}

func (k KeepOrphans) HandleOrphan(_ context.Context, _ storage.Storage, folder string, cause error) {
	logger(k.Logger).Warn("import left orphaned copy in managed storage", "folder", folder, "error", cause)
}

// RemoveOrphans deletes the copied folder.
type RemoveOrphans struct {
	Logger *slog.Logger
}

func (r RemoveOrphans) HandleOrphan(ctx context.Context, st storage.Storage, folder string, cause error) {
	log := logger(r.Logger)
	if err := st.Remove(ctx, folder); err != nil {
		log.Error("remove orphaned copy", "folder", folder, "error", err, "cause", cause)
		return
	}
	log.Info("removed orphaned copy", "folder", folder, "cause", cause)
}

// PolicyByName maps the import.orphan_policy config value to a policy.
func PolicyByName(name string, l *slog.Logger) (OrphanPolicy, bool) {
	switch name {
	case "", "keep":
		return KeepOrphans{Logger: l}, true
	case "remove":
		return RemoveOrphans{Logger: l}, true
	default:
		return nil, false
	}
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
