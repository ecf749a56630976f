package interfaces

//go:generate moq -out mocks/warehouse_mock.go -pkg mocks . Warehouse

import (
	"context"

	"github.com/secmon-lab/usageboard/pkg/domain/model"
)

// Warehouse executes read-only statements against the usage schema
type Warehouse interface {
	// Query runs the statement and scans rows into the declared columns
	Query(ctx context.Context, stmt model.Statement) (*model.QueryResult, error)

	// Close releases the underlying connection pool
	Close() error
}
