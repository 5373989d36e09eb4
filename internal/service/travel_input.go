package service

import (
	"strings"
	"time"
)

type CoordinatesInput struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PhotoInput is an uploaded photo. ID 0 means a new photo whose bytes are in Base64Content,
// which may be a data URL.
type PhotoInput struct {
	ID            uint   `json:"id"`
	FileName      string `json:"file_name"`
	Base64Content string `json:"base64_content"`
}

type PointInput struct {
	Name          string            `json:"name"`
	Address       string            `json:"address"`
	Coordinates   *CoordinatesInput `json:"coordinates"`
	DepartureTime string            `json:"departure_time"`
	ArrivalTime   string            `json:"arrival_time"`
	Type          string            `json:"type"`
	Duration      *float64          `json:"duration"`
	Note          string            `json:"note"`
	Photos        []PhotoInput      `json:"photos"`
}

type CreateTravelInput struct {
	Title  string       `json:"title"`
	Date   string       `json:"date"`
	Tags   []string     `json:"tags"`
	Points []PointInput `json:"points"`
}

// TravelPatch is a partial update. Unset members are left alone; see PointPatch for
// per-field semantics.
type TravelPatch struct {
	Title  Field[string]       `json:"title"`
	Date   Field[string]       `json:"date"`
	Tags   Field[[]string]     `json:"tags"`
	Points Field[[]PointPatch] `json:"points"`
}

// PointPatch updates the point with the same ID, or describes a new point when ID is 0
// or unknown.
type PointPatch struct {
	ID            uint                    `json:"id"`
	Name          Field[string]           `json:"name"`
	Address       Field[string]           `json:"address"`
	Type          Field[string]           `json:"type"`
	Note          Field[string]           `json:"note"`
	DepartureTime Field[string]           `json:"departure_time"`
	ArrivalTime   Field[string]           `json:"arrival_time"`
	Duration      Field[float64]          `json:"duration"`
	Coordinates   Field[CoordinatesInput] `json:"coordinates"`
	Photos        Field[[]PhotoInput]     `json:"photos"`
}

func (p PointPatch) asInput() PointInput {
	in := PointInput{
		Name:          p.Name.Value,
		Address:       p.Address.Value,
		Type:          p.Type.Value,
		Note:          p.Note.Value,
		DepartureTime: p.DepartureTime.Value,
		ArrivalTime:   p.ArrivalTime.Value,
		Photos:        p.Photos.Value,
	}
	if c, ok := p.Coordinates.Get(); ok {
		in.Coordinates = &c
	}
	if d, ok := p.Duration.Get(); ok {
		in.Duration = &d
	}
	return in
}

var travelDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTravelDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range travelDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalidf("Invalid date format: %s", s)
}
