package service

import (
	"errors"
	"html"
	"math"
	"strings"

	"github.com/maheshrc27/smartflow/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrNotFound     = repository.ErrNotFound
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

var strictPolicy = bluemonday.StrictPolicy()

// sanitizeText strips any markup from user or model supplied text.
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

func newID() (string, error) {
	return gonanoid.New()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
