package service

import (
	"time"

	"travel-journal-backend/internal/models"
)

type UserView struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type AuthorView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type CoordinatesView struct {
	ID  uint    `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type PhotoView struct {
	ID       uint   `json:"id"`
	FilePath string `json:"file_path"`
}

type PointView struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Address       string            `json:"address"`
	Type          string            `json:"type"`
	Note          string            `json:"note"`
	DepartureTime *models.TimeOfDay `json:"departure_time"`
	ArrivalTime   *models.TimeOfDay `json:"arrival_time"`
	Duration      *float64          `json:"duration"`
	Coordinates   *CoordinatesView  `json:"coordinates"`
	Photos        []PhotoView       `json:"photos"`
}

// TravelSummaryView is a travel without its points.
type TravelSummaryView struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	UserID     uint      `json:"user_id"`
	LikesCount int       `json:"likes_count"`
	Tags       []string  `json:"tags"`
}

type TravelView struct {
	TravelSummaryView
	Points []PointView `json:"points"`
}

type FeedItemView struct {
	TravelView
	User AuthorView `json:"user"`
}

type FeedPage struct {
	Items      []FeedItemView `json:"items"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

func newUserView(u *models.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, Username: u.Username}
}

func newPhotoViews(photos []models.Photo) []PhotoView {
	views := make([]PhotoView, 0, len(photos))
	for _, p := range photos {
		views = append(views, PhotoView{ID: p.ID, FilePath: p.FilePath})
	}
	return views
}

func newPointView(p *models.TravelPoint) PointView {
	view := PointView{
		ID:            p.ID,
		Name:          p.Name,
		Address:       p.Address,
		Type:          p.Type,
		Note:          p.Note,
		DepartureTime: p.DepartureTime,
		ArrivalTime:   p.ArrivalTime,
		Duration:      p.Duration,
		Photos:        newPhotoViews(p.Photos),
	}
	if p.Coordinates != nil {
		view.Coordinates = &CoordinatesView{ID: p.Coordinates.ID, Lat: p.Coordinates.Lat, Lon: p.Coordinates.Lon}
	}
	return view
}

func newPointViews(points []models.TravelPoint) []PointView {
	views := make([]PointView, 0, len(points))
	for i := range points {
		views = append(views, newPointView(&points[i]))
	}
	return views
}

func newTravelSummaryView(t *models.Travel) TravelSummaryView {
	return TravelSummaryView{
		ID:         t.ID,
		Title:      t.Title,
		Date:       t.Date.UTC(),
		UserID:     t.UserID,
		LikesCount: t.LikesCount,
		Tags:       t.TagNames(),
	}
}

func newTravelView(t *models.Travel) TravelView {
	return TravelView{
		TravelSummaryView: newTravelSummaryView(t),
		Points:            newPointViews(t.Points),
	}
}

func newFeedItemView(t *models.Travel) FeedItemView {
	return FeedItemView{
		TravelView: newTravelView(t),
		User:       AuthorView{ID: t.User.ID, Username: t.User.Username},
	}
}
