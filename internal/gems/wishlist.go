// internal/gems/wishlist.go
package gems

import (
	"context"
	"net/http"
	"net/url"

	apperrors "gemfinder/internal/common/errors"
	"gemfinder/internal/common/metrics"
)

type wishlistRequest struct {
	GemID string `json:"gemId"`
}

// AddToWishlist issues POST /wishlist {gemId}. The session cookie in the
// jar identifies the user.
func (c *Client) AddToWishlist(ctx context.Context, gemID string) error {
	req, err := c.http.NewJSONRequest(ctx, http.MethodPost, "/wishlist", wishlistRequest{GemID: gemID})
	if err != nil {
		return apperrors.NewTransportError(err)
	}
	if _, _, err := c.do(req, EndpointWishlist, nil); err != nil {
		return err
	}
	metrics.BackendFetches.WithLabelValues(EndpointWishlist, "ok").Inc()
	return nil
}

// RemoveFromWishlist issues DELETE /wishlist/{gemId}.
func (c *Client) RemoveFromWishlist(ctx context.Context, gemID string) error {
	req, err := c.http.NewRequest(ctx, http.MethodDelete, "/wishlist/"+url.PathEscape(gemID), nil)
	if err != nil {
		return apperrors.NewTransportError(err)
	}
	if _, _, err := c.do(req, EndpointWishlist, nil); err != nil {
		return err
	}
	metrics.BackendFetches.WithLabelValues(EndpointWishlist, "ok").Inc()
	return nil
}
