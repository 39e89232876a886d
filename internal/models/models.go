package models

import (
	"fmt"
	"time"
)

// Presentation is one uploaded deck. FilePath points at the original upload
// inside the presentations bucket; ThumbnailPath is filled in by the
// conversion worker from the first rendered slide and stays empty until then.
type Presentation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Title         string    `json:"title"`
	FilePath      string    `json:"-"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty"`
	Slides        []Slide   `gorm:"constraint:OnDelete:CASCADE" json:"slides,omitempty"`
}

// LocalID is the identifier used in URLs for locally stored decks, to keep
// them apart from remote design ids.
func (p *Presentation) LocalID() string {
	return fmt.Sprintf("local_%d", p.ID)
}

// Slide is a single rendered page of a Presentation. Order is zero-based and
// unique within a presentation; default retrieval is ascending by Order.
type Slide struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	PresentationID uint   `gorm:"index" json:"presentation_id"`
	ImagePath      string `json:"image_path"`
	Order          int    `gorm:"column:display_order" json:"order"`
}
