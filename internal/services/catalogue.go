package services

import (
	"github.com/vytor/wordjourney/internal/journey"
	"github.com/vytor/wordjourney/internal/models"
)

// Catalogue is the content the services read; *content.Catalogue satisfies it.
type Catalogue interface {
	journey.Catalogue
	Words() []models.Word
	Frameworks() []models.Framework
}
