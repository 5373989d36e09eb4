package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-journal-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TravelRepository struct {
	db *gorm.DB
}

func NewTravelRepo(db *gorm.DB) *TravelRepository {
	return &TravelRepository{db: db}
}

// FeedQuery selects a page of tagged travels.
type FeedQuery struct {
	Page     int
	PageSize int
	Search   string
	Tag      string
}

// TravelChanges is a fully validated set of writes against one travel graph.
// Nil pointers leave the matching column untouched.
type TravelChanges struct {
	TravelID       uint
	Title          *string
	Date           *time.Time
	Tags           *[]string
	DeletePointIDs []uint
	DeletePhotoIDs []uint
	UpdatePoints   []*models.TravelPoint
	InsertPhotos   []models.Photo
	InsertPoints   []*models.TravelPoint
}

func withGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Points", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Points.Coordinates").
		Preload("Points.Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// CreateTravel inserts a travel together with its tags, points, coordinates and photos
func (r *TravelRepository) CreateTravel(ctx context.Context, travel *models.Travel) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("User").Create(travel).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create travel: %w", err)
	}
	return nil
}

// GetTravelByID returns the travel row without relations
func (r *TravelRepository) GetTravelByID(ctx context.Context, id uint) (*models.Travel, error) {
	var travel models.Travel
	err := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&travel, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get travel: %w", err)
	}
	return &travel, nil
}

// GetTravelGraph returns the travel with tags, ordered points, coordinates and photos
func (r *TravelRepository) GetTravelGraph(ctx context.Context, id uint) (*models.Travel, error) {
	return getTravelGraph(r.db.WithContext(ctx), id)
}

func getTravelGraph(db *gorm.DB, id uint) (*models.Travel, error) {
	var travel models.Travel
	err := withGraph(db).First(&travel, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get travel: %w", err)
	}
	return &travel, nil
}

// ListTravelsByUser returns a user's travels with their full graph, newest first
func (r *TravelRepository) ListTravelsByUser(ctx context.Context, userID uint) ([]models.Travel, error) {
	var travels []models.Travel
	err := withGraph(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&travels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list travels: %w", err)
	}
	return travels, nil
}

// ListPoints returns the points of a travel in order
func (r *TravelRepository) ListPoints(ctx context.Context, travelID uint) ([]models.TravelPoint, error) {
	var points []models.TravelPoint
	err := r.db.WithContext(ctx).
		Preload("Coordinates").
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("travel_id = ?", travelID).
		Order("position ASC, id ASC").
		Find(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list points: %w", err)
	}
	return points, nil
}

// GetTravelOwner returns the user id owning the travel
func (r *TravelRepository) GetTravelOwner(ctx context.Context, travelID uint) (uint, error) {
	var travel models.Travel
	err := r.db.WithContext(ctx).Select("id", "user_id").First(&travel, travelID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to get travel owner: %w", err)
	}
	return travel.UserID, nil
}

// GetPointOwner returns the user id owning the travel the point belongs to
func (r *TravelRepository) GetPointOwner(ctx context.Context, pointID uint) (uint, error) {
	var owner struct{ UserID uint }
	res := r.db.WithContext(ctx).
		Table("travel_points").
		Select("travels.user_id AS user_id").
		Joins("JOIN travels ON travels.id = travel_points.travel_id").
		Where("travel_points.id = ?", pointID).
		Limit(1).
		Scan(&owner)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to get point owner: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return owner.UserID, nil
}

// ReplaceTags swaps the full tag list of a travel
func (r *TravelRepository) ReplaceTags(ctx context.Context, travelID uint, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Travel{}).Where("id = ?", travelID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return replaceTags(tx, travelID, tags)
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to replace tags: %w", err)
	}
	return err
}

func replaceTags(tx *gorm.DB, travelID uint, tags []string) error {
	if err := tx.Where("travel_id = ?", travelID).Delete(&models.TravelTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	rows := models.NewTags(tags)
	for i := range rows {
		rows[i].TravelID = travelID
	}
	return tx.Create(&rows).Error
}

// ApplyChanges writes a reconciled update in a single transaction
func (r *TravelRepository) ApplyChanges(ctx context.Context, changes *TravelChanges) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if changes.Title != nil {
			updates["title"] = *changes.Title
		}
		if changes.Date != nil {
			updates["date"] = *changes.Date
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Travel{}).Where("id = ?", changes.TravelID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if changes.Tags != nil {
			if err := replaceTags(tx, changes.TravelID, *changes.Tags); err != nil {
				return err
			}
		}

		if len(changes.DeletePhotoIDs) > 0 {
			if err := tx.Where("id IN ?", changes.DeletePhotoIDs).Delete(&models.Photo{}).Error; err != nil {
				return err
			}
		}
		if err := deletePoints(tx, changes.DeletePointIDs); err != nil {
			return err
		}

		for _, point := range changes.UpdatePoints {
			if err := tx.Omit(clause.Associations).Save(point).Error; err != nil {
				return err
			}
			if point.Coordinates != nil {
				point.Coordinates.PointID = point.ID
				if err := tx.Save(point.Coordinates).Error; err != nil {
					return err
				}
			}
		}

		if len(changes.InsertPhotos) > 0 {
			if err := tx.Create(&changes.InsertPhotos).Error; err != nil {
				return err
			}
		}

		for _, point := range changes.InsertPoints {
			point.TravelID = changes.TravelID
			if err := tx.Create(point).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply travel changes: %w", err)
	}
	return nil
}

func deletePoints(tx *gorm.DB, pointIDs []uint) error {
	if len(pointIDs) == 0 {
		return nil
	}
	if err := tx.Where("point_id IN ?", pointIDs).Delete(&models.Photo{}).Error; err != nil {
		return err
	}
	if err := tx.Where("point_id IN ?", pointIDs).Delete(&models.Coordinates{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", pointIDs).Delete(&models.TravelPoint{}).Error
}

// DeleteTravel removes the travel and everything under it, returning the deleted graph
// so the caller can clean up stored files.
func (r *TravelRepository) DeleteTravel(ctx context.Context, id uint) (*models.Travel, error) {
	var deleted *models.Travel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		travel, err := getTravelGraph(tx, id)
		if err != nil {
			return err
		}
		pointIDs := make([]uint, 0, len(travel.Points))
		for _, p := range travel.Points {
			pointIDs = append(pointIDs, p.ID)
		}
		if err := deletePoints(tx, pointIDs); err != nil {
			return err
		}
		if err := tx.Where("travel_id = ?", id).Delete(&models.TravelTag{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Travel{}, id).Error; err != nil {
			return err
		}
		deleted = travel
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete travel: %w", err)
	}
	return deleted, nil
}

// AdjustLikes adds delta to the like counter, never going below zero, and returns the new value
func (r *TravelRepository) AdjustLikes(ctx context.Context, travelID uint, delta int) (int, error) {
	var likes int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expr := gorm.Expr("likes_count + ?", delta)
		if delta < 0 {
			expr = gorm.Expr("CASE WHEN likes_count + ? > 0 THEN likes_count + ? ELSE 0 END", delta, delta)
		}
		if err := tx.Model(&models.Travel{}).Where("id = ?", travelID).UpdateColumn("likes_count", expr).Error; err != nil {
			return err
		}

		var travel models.Travel
		if err := tx.Select("id", "likes_count").First(&travel, travelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		likes = travel.LikesCount
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to update likes: %w", err)
	}
	return likes, nil
}

// likeEscaper makes LIKE wildcards in user input match literally. '!' is used as the escape
// character because a backslash literal is read differently by mysql and postgres.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *TravelRepository) feedScope(ctx context.Context, q FeedQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Travel{}).
		Where("EXISTS (SELECT 1 FROM travel_tags tt WHERE tt.travel_id = travels.id)")
	if q.Search != "" {
		db = db.Where("LOWER(travels.title) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(q.Search))+"%")
	}
	if q.Tag != "" {
		db = db.Where("EXISTS (SELECT 1 FROM travel_tags ft WHERE ft.travel_id = travels.id AND ft.name = ?)", q.Tag)
	}
	return db
}

// Feed returns one page of tagged travels and the total number of matches
func (r *TravelRepository) Feed(ctx context.Context, q FeedQuery) ([]models.Travel, int64, error) {
	var total int64
	if err := r.feedScope(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count feed: %w", err)
	}

	var travels []models.Travel
	err := withGraph(r.feedScope(ctx, q)).
		Preload("User").
		Order("travels.date DESC, travels.id DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&travels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load feed: %w", err)
	}
	return travels, total, nil
}

// DistinctTags returns every tag in use, sorted
func (r *TravelRepository) DistinctTags(ctx context.Context) ([]string, error) {
	var tags []string
	err := r.db.WithContext(ctx).Model(&models.TravelTag{}).
		Distinct("name").
		Order("name").
		Pluck("name", &tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}
