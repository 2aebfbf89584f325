package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/godilite/cocina-grades/internal/repository"
)

const (
	storeTimeout = 2 * time.Second
)

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrStorageFailure = errors.New("storage failure")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func storageErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

func getDoc(ctx context.Context, store DocumentStore, collection, id string, dest any) error {
	dbCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := store.Get(dbCtx, collection, id, dest); err != nil {
		return storageErr(err)
	}
	return nil
}

func putDoc(ctx context.Context, store DocumentStore, collection, id string, value any) error {
	dbCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := store.Put(dbCtx, collection, id, value); err != nil {
		return storageErr(err)
	}
	return nil
}

func removeDoc(ctx context.Context, store DocumentStore, collection, id string) error {
	dbCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := store.Remove(dbCtx, collection, id); err != nil {
		return storageErr(err)
	}
	return nil
}

// listDocs decodes a whole collection. Documents that fail to decode are
// skipped with a warning so a corrupt entry never blocks the rest.
func listDocs[T any](ctx context.Context, store DocumentStore, logger *zap.Logger, collection string) ([]T, error) {
	dbCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	docs, err := store.List(dbCtx, collection)
	if err != nil {
		return nil, storageErr(err)
	}

	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d.Body, &v); err != nil {
			logger.Warn("skipping corrupt document",
				zap.String("collection", collection),
				zap.String("id", d.ID),
				zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
