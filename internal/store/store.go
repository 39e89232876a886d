// Package store is the persistence layer for presentations and their slides.
package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/RonnyAreUneMi/exposiciones/internal/models"
)

var ErrNotFound = errors.New("presentation not found")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreatePresentation inserts a new deck record. Thumbnail stays empty until
// the conversion worker fills it in.
func (s *Store) CreatePresentation(title, filePath string) (*models.Presentation, error) {
	p := models.Presentation{
		Title:    title,
		FilePath: filePath,
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPresentation loads a deck with its slides in display order.
func (s *Store) GetPresentation(id uint) (*models.Presentation, error) {
	var p models.Presentation
	err := s.db.Preload("Slides", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order asc")
	}).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPresentations returns all decks, newest first.
func (s *Store) ListPresentations() ([]models.Presentation, error) {
	var items []models.Presentation
	if err := s.db.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeletePresentation removes a deck and all of its slides in one transaction
// and returns the deleted record (slides included) so callers can clean up
// the referenced blobs.
func (s *Store) DeletePresentation(id uint) (*models.Presentation, error) {
	p, err := s.GetPresentation(id)
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("presentation_id = ?", id).Delete(&models.Slide{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Presentation{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AppendSlide creates the slide with the given display order.
func (s *Store) AppendSlide(presentationID uint, imagePath string, order int) (*models.Slide, error) {
	slide := models.Slide{
		PresentationID: presentationID,
		ImagePath:      imagePath,
		Order:          order,
	}
	if err := s.db.Create(&slide).Error; err != nil {
		return nil, err
	}
	return &slide, nil
}

func (s *Store) SetThumbnail(presentationID uint, thumbnailPath string) error {
	return s.db.Model(&models.Presentation{}).
		Where("id = ?", presentationID).
		Update("thumbnail_path", thumbnailPath).Error
}

func (s *Store) SlideCount(presentationID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Slide{}).Where("presentation_id = ?", presentationID).Count(&n).Error
	return n, err
}

func (s *Store) PresentationCount() (int64, error) {
	var n int64
	err := s.db.Model(&models.Presentation{}).Count(&n).Error
	return n, err
}
