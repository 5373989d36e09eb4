package service

import (
	"context"
	"log/slog"
	"time"

	"travel-journal-backend/internal/repository"
	"travel-journal-backend/internal/storage"
)

// UploadSweeper removes upload files that no photo row references. Files younger than
// minAge are skipped, because a request may have written them and not committed its rows yet.
type UploadSweeper struct {
	photoRepo *repository.PhotoRepository
	store     *storage.PhotoStore
	interval  time.Duration
	minAge    time.Duration
	now       func() time.Time
}

func NewUploadSweeper(photoRepo *repository.PhotoRepository, store *storage.PhotoStore, interval, minAge time.Duration) *UploadSweeper {
	return &UploadSweeper{
		photoRepo: photoRepo,
		store:     store,
		interval:  interval,
		minAge:    minAge,
		now:       time.Now,
	}
}

// Start runs a sweep every interval until ctx is cancelled
func (w *UploadSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("upload sweeper started", "interval", w.interval, "min_age", w.minAge)

	for {
		select {
		case <-ctx.Done():
			slog.Info("upload sweeper stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				slog.Error("upload sweep failed", "error", err)
			}
		}
	}
}

// Sweep removes unreferenced files older than minAge and returns how many were removed
func (w *UploadSweeper) Sweep(ctx context.Context) (int, error) {
	files, err := w.store.List()
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}

	referenced, err := w.photoRepo.ReferencedPaths(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := w.now().Add(-w.minAge)
	removed := 0
	for _, f := range files {
		if _, ok := referenced[f.Path]; ok || f.ModTime.After(cutoff) {
			continue
		}
		if err := w.store.Remove(f.Path); err != nil {
			slog.Warn("orphan upload not removed", "path", f.Path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("orphan uploads removed", "count", removed)
	}
	return removed, nil
}
