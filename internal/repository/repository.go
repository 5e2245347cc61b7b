package repository

import (
	"context"
	"errors"

	"github.com/mr1hm/go-saferoute/internal/models"
)

var (
	ErrNotFound           = errors.New("destination not found")
	ErrInvalidDestination = errors.New("invalid destination")
)

type Filter struct {
	Districts []string         // district IN (...); empty means any
	Category  *models.Category // exact match
	MaxBudget *int             // budget <= MaxBudget
	Query     string           // substring of place or district, case-insensitive
	Limit     int
}

// DestinationRepository is the destination catalog. List results come back
// in catalog order (ascending id).
type DestinationRepository interface {
	ListDestinations(ctx context.Context, opts Filter) ([]models.Destination, error)
	GetDestination(ctx context.Context, id int64) (*models.Destination, error)
	AddDestination(ctx context.Context, d *models.Destination) error
	IncrementSearchCount(ctx context.Context, ids ...int64) (int64, error)
}
