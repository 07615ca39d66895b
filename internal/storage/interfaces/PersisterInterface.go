package interfaces

import "coursetrack/internal/models"

// PersisterInterface reads and fully rewrites the course document.
type PersisterInterface interface {
	Load() (*models.Document, error)
	Save(doc *models.Document) error
}
