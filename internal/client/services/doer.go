// Package services holds the typed queries the terminal client runs against
// the backend. Every service talks to the backend only through a Doer.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/elite/internal/client/api"
)

// Doer is the part of *api.Client the services need.
type Doer interface {
	Do(ctx context.Context, r api.Request, out any) error
}

var ErrInvalidID = errors.New("id must be positive")

func get(ctx context.Context, d Doer, path string, out any) error {
	return d.Do(ctx, api.Request{Method: http.MethodGet, Path: path}, out)
}

func post(ctx context.Context, d Doer, path string, body, out any) error {
	return d.Do(ctx, api.Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// idPath formats path with a positive id.
func idPath(format string, id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return fmt.Sprintf(format, id), nil
}
