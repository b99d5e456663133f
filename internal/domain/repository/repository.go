package repository

import (
	"context"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
)

// SessionStore per-user session mode storage
type SessionStore interface {
	// GetMode returns ModeIdle for users never seen before
	GetMode(ctx context.Context, userID string) (entity.SessionMode, error)

	// SetMode stores the mode for the next message of userID
	SetMode(ctx context.Context, userID string, mode entity.SessionMode) error
}

// PriceRepository read-only daily market price table
type PriceRepository interface {
	// Schema which required-column set the table was loaded with
	Schema() entity.PriceSchema

	// Records all rows in source order
	Records() []entity.PriceRecord

	// Products distinct product labels in first-seen order
	Products() []entity.ProductLabel
}

// SeasonRepository read-only seasonality table
type SeasonRepository interface {
	// Records all rows in source order
	Records() []entity.SeasonalRecord
}
