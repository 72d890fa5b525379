package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/elite/internal/client/store"
)

// refresh exchanges the stored refresh token for a new access token and
// persists the result. Concurrent callers share one exchange. A caller whose
// stale token was already replaced gets the replacement without a new
// exchange.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	ctx = context.WithoutCancel(ctx)

	v, err, _ := c.refreshes.Do("refresh", func() (any, error) {
		current, err := store.GetString(ctx, c.store, store.KeyAuthToken)
		if err != nil {
			return "", err
		}
		if current != "" && current != stale {
			return current, nil
		}

		token, err := c.exchange(ctx)
		c.metrics.refreshed(err)
		return token, err
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) exchange(ctx context.Context) (string, error) {
	rt, err := store.GetString(ctx, c.store, store.KeyRefreshToken)
	if err != nil {
		return "", err
	}
	if rt == "" {
		return "", errNoRefreshToken
	}

	body, err := json.Marshal(refreshRequest{Refresh: rt})
	if err != nil {
		return "", err
	}

	// Sent raw: a 401 here must not recurse into another refresh.
	resp, err := c.send(ctx, Request{Method: http.MethodPost, Path: RefreshPath}, body, "")
	if err != nil {
		return "", fmt.Errorf("%w: %w", errRefreshTransport, err)
	}
	if resp.status != http.StatusOK {
		return "", fmt.Errorf("refresh rejected with status %d", resp.status)
	}

	var pair TokenPair
	if err := json.Unmarshal(resp.body, &pair); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if pair.Access == "" {
		return "", errors.New("refresh response has no access token")
	}

	values := map[string][]byte{store.KeyAuthToken: []byte(pair.Access)}
	if pair.Refresh != "" {
		values[store.KeyRefreshToken] = []byte(pair.Refresh)
	}
	if err := c.store.SetMany(ctx, values); err != nil {
		return "", fmt.Errorf("persist refreshed tokens: %w", err)
	}

	c.logger.Info(ctx, "access token refreshed")
	return pair.Access, nil
}
