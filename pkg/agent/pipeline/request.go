package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinNameLength        = 3
	MaxNameLength        = 30
	MinDescriptionLength = 10
	MaxDescriptionLength = 150
)

type CreationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CreationRequest) normalized() CreationRequest {
	return CreationRequest{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
	}
}

// Validate checks the length limits on the trimmed fields, counted in characters.
func (r CreationRequest) Validate() error {
	n := r.normalized()

	if l := utf8.RuneCountInString(n.Name); l < MinNameLength || l > MaxNameLength {
		return fmt.Errorf("name must be between %d and %d characters, got %d", MinNameLength, MaxNameLength, l)
	}

	if l := utf8.RuneCountInString(n.Description); l < MinDescriptionLength || l > MaxDescriptionLength {
		return fmt.Errorf("description must be between %d and %d characters, got %d", MinDescriptionLength, MaxDescriptionLength, l)
	}

	return nil
}

// Prompt is the text sent to the image generator.
func (r CreationRequest) Prompt() string {
	return r.Description
}
