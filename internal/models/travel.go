package models

import "time"

// DefaultPointType is assigned to points created without a category.
const DefaultPointType = "attraction"

// Travel represents the travels table
type Travel struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	Title      string        `gorm:"size:255;not null" json:"title"`
	Date       time.Time     `gorm:"not null;index" json:"date"`
	UserID     uint          `gorm:"not null;index" json:"user_id"`
	LikesCount int           `gorm:"not null;default:0" json:"likes_count"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	User       User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Points     []TravelPoint `gorm:"foreignKey:TravelID;constraint:OnDelete:CASCADE" json:"points,omitempty"`
	Tags       []TravelTag   `gorm:"foreignKey:TravelID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

// TableName specifies the table name for Travel model
func (Travel) TableName() string {
	return "travels"
}

// TagNames returns the tag values in their stored order.
func (t *Travel) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// PhotoPaths returns the storage path of every photo under every point.
func (t *Travel) PhotoPaths() []string {
	var paths []string
	for _, p := range t.Points {
		paths = append(paths, p.PhotoPaths()...)
	}
	return paths
}

// TravelTag represents the travel_tags table. A travel is part of the public feed
// while it has at least one tag.
type TravelTag struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TravelID uint   `gorm:"not null;index" json:"travel_id"`
	Name     string `gorm:"size:100;not null;index" json:"name"`
	Position int    `gorm:"not null;default:0" json:"position"`
}

// TableName specifies the table name for TravelTag model
func (TravelTag) TableName() string {
	return "travel_tags"
}

// NewTags builds tag rows in the given order.
func NewTags(names []string) []TravelTag {
	tags := make([]TravelTag, 0, len(names))
	for i, name := range names {
		tags = append(tags, TravelTag{Name: name, Position: i})
	}
	return tags
}
