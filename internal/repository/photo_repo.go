package repository

import (
	"context"
	"errors"
	"fmt"

	"travel-journal-backend/internal/models"

	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepo(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// FindPointPhoto returns the photo only if it belongs to the given point
func (r *PhotoRepository) FindPointPhoto(ctx context.Context, pointID, photoID uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).Where("id = ? AND point_id = ?", photoID, pointID).First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}
	return &photo, nil
}

// DeletePhoto removes a photo row
func (r *PhotoRepository) DeletePhoto(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Photo{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete photo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReferencedPaths returns the set of file paths referenced by any photo row
func (r *PhotoRepository) ReferencedPaths(ctx context.Context) (map[string]struct{}, error) {
	var paths []string
	if err := r.db.WithContext(ctx).Model(&models.Photo{}).Pluck("file_path", &paths).Error; err != nil {
		return nil, fmt.Errorf("failed to list photo paths: %w", err)
	}
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set, nil
}
