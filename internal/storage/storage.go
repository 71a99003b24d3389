package storage

import (
	"context"
	"fmt"
	"math"

	"viralhub-backend-go/internal/models"
)

// DefaultListLimit is used by list operations when the caller passes a negative limit.
const DefaultListLimit = 10

// MaxID is the largest id a SERIAL column can hold. Point lookups outside
// 1..MaxID report absence without reaching the store.
const MaxID = math.MaxInt32

// Gateway is the only component that talks to the relational store.
// Point lookups report absence through the boolean, never through the error.
type Gateway interface {
	GetUser(ctx context.Context, id string) (models.User, bool, error)
	UpsertUser(ctx context.Context, profile models.UserProfile) (models.User, error)

	GetProduct(ctx context.Context, id int64) (models.Product, bool, error)
	GetRecentProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetUserProducts(ctx context.Context, userID string, limit int) ([]models.Product, error)
	CreateProduct(ctx context.Context, input models.NewProduct) (models.Product, error)

	CreateContent(ctx context.Context, input models.NewContent) (models.Content, error)

	CreateAssistant(ctx context.Context, input models.NewAssistant) (models.Assistant, error)
	GetAssistant(ctx context.Context, id int64) (models.Assistant, bool, error)
	GetUserAssistants(ctx context.Context, userID string) ([]models.Assistant, error)
	CountUserAssistants(ctx context.Context, userID string) (int, error)

	Ping(ctx context.Context) error
}

// StorageError reports a failed store round-trip: connectivity or a violated constraint.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func validID(id int64) bool {
	return id >= 1 && id <= MaxID
}

func normalizeLimit(limit int) int {
	if limit < 0 {
		return DefaultListLimit
	}
	return limit
}
