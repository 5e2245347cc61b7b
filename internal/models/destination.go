package models

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryBeach    Category = "beach"
	CategoryHill     Category = "hill"
	CategoryWildlife Category = "wildlife"
)

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryBeach, CategoryHill, CategoryWildlife:
		return c, true
	default:
		return "", false
	}
}

// Title returns the category with its first letter upper-cased, as shown to users.
func (c Category) Title() string {
	return Capitalize(string(c))
}

type Destination struct {
	ID          int64
	District    string
	Place       string
	Category    Category
	Budget      int
	Description string
	ImageURL    string
	SearchCount int64
	CreatedAt   time.Time
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
