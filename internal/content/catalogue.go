// Package content is the read-only catalogue of words, frameworks and
// exercises. The catalogue is built once at startup, validated, and then
// shared by every journey without locking.
package content

import (
	"errors"
	"fmt"

	"github.com/vytor/wordjourney/internal/models"
)

var ErrNotFound = errors.New("content not found")

type exerciseKey struct {
	framework string
	word      string
	step      string
}

// Catalogue indexes words, frameworks and their exercises.
type Catalogue struct {
	words      []models.Word
	wordIndex  map[string]int
	frameworks []models.Framework
	fwIndex    map[string]int
	exercises  map[exerciseKey]Exercise
}

// Words returns all words in catalogue order.
func (c *Catalogue) Words() []models.Word {
	return append([]models.Word(nil), c.words...)
}

// Frameworks returns all frameworks in catalogue order.
func (c *Catalogue) Frameworks() []models.Framework {
	return append([]models.Framework(nil), c.frameworks...)
}

func (c *Catalogue) Word(id string) (models.Word, error) {
	i, ok := c.wordIndex[id]
	if !ok {
		return models.Word{}, fmt.Errorf("word %q: %w", id, ErrNotFound)
	}
	return c.words[i], nil
}

func (c *Catalogue) Framework(id string) (models.Framework, error) {
	i, ok := c.fwIndex[id]
	if !ok {
		return models.Framework{}, fmt.Errorf("framework %q: %w", id, ErrNotFound)
	}
	return c.frameworks[i], nil
}

// Exercise looks up the content bundle for one step of a journey.
func (c *Catalogue) Exercise(framework, wordID, stepID string) (Exercise, error) {
	ex, ok := c.exercises[exerciseKey{framework, wordID, stepID}]
	if !ok {
		return Exercise{}, fmt.Errorf("exercise %s/%s/%s: %w", framework, wordID, stepID, ErrNotFound)
	}
	return ex, nil
}
