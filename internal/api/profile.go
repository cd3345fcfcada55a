package api

import (
	"context"
	"fmt"
	"net/http"

	"codeberg.org/taskboard/cli/internal/apierrors"
)

const profilePath = "/api/v1/me/profile"

// fetches the authenticated account's profile
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile

	if err := c.do(ctx, http.MethodGet, profilePath, nil, nil, &profile); err != nil {
		return nil, fmt.Errorf("%w: %w", apierrors.ErrProfileFetch, err)
	}

	return &profile, nil
}

// updates display fields on the authenticated account's profile
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	var profile Profile

	if err := c.do(ctx, http.MethodPut, profilePath, nil, req, &profile); err != nil {
		return nil, fmt.Errorf("%w: %w", apierrors.ErrProfileFetch, err)
	}

	return &profile, nil
}
