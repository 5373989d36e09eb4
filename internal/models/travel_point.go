package models

import "time"

// TravelPoint represents the travel_points table
type TravelPoint struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	TravelID      uint         `gorm:"not null;index" json:"travel_id"`
	Position      int          `gorm:"not null;default:0" json:"position"`
	Name          string       `gorm:"size:255;not null" json:"name"`
	Address       string       `gorm:"size:512" json:"address"`
	DepartureTime *TimeOfDay   `gorm:"size:8" json:"departure_time"`
	ArrivalTime   *TimeOfDay   `gorm:"size:8" json:"arrival_time"`
	Type          string       `gorm:"size:50;not null" json:"type"`
	Duration      *float64     `json:"duration"`
	Note          string       `gorm:"type:text" json:"note"`
	Coordinates   *Coordinates `gorm:"foreignKey:PointID;constraint:OnDelete:CASCADE" json:"coordinates"`
	Photos        []Photo      `gorm:"foreignKey:PointID;constraint:OnDelete:CASCADE" json:"photos"`
}

// TableName specifies the table name for TravelPoint model
func (TravelPoint) TableName() string {
	return "travel_points"
}

// PhotoPaths returns the storage path of every photo of the point.
func (p *TravelPoint) PhotoPaths() []string {
	paths := make([]string, 0, len(p.Photos))
	for _, photo := range p.Photos {
		paths = append(paths, photo.FilePath)
	}
	return paths
}

// Coordinates represents the coordinates table. Each row belongs to exactly one point.
type Coordinates struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	PointID uint    `gorm:"not null;uniqueIndex" json:"-"`
	Lat     float64 `gorm:"not null" json:"lat"`
	Lon     float64 `gorm:"not null" json:"lon"`
}

// TableName specifies the table name for Coordinates model
func (Coordinates) TableName() string {
	return "coordinates"
}

// Photo represents the photos table. FilePath is relative to the process working
// directory, e.g. "uploads/<uuid>.jpg".
type Photo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PointID   uint      `gorm:"not null;index" json:"point_id"`
	FilePath  string    `gorm:"size:512;not null" json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Photo model
func (Photo) TableName() string {
	return "photos"
}
