package service

import (
	"context"

	"github.com/godilite/cocina-grades/internal/repository"
)

// DocumentStore defines the storage operations the services rely on.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string, dest any) error
	Put(ctx context.Context, collection, id string, value any) error
	Remove(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]repository.Document, error)
	ReplaceCollections(ctx context.Context, collections map[string][]repository.Document) error
	Revision(ctx context.Context) (int64, error)
	Epoch(ctx context.Context) (string, error)
}
