// Package store persists analysis result records as an append-only ordered
// sequence.
package store

import (
	"context"

	"finreview/internal/models"
)

// Store appends result records and returns them in insertion order.
// Implementations must be safe for concurrent appenders.
type Store interface {
	Append(ctx context.Context, record models.ResultRecord) error
	ReadAll(ctx context.Context) ([]models.ResultRecord, error)
}
