// ABOUTME: Administration operations against the /admin endpoints
// ABOUTME: Dashboard stats, paginated user listing, and active-flag toggling

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Dashboard fetches aggregate user and session statistics plus the most
// recently registered users. Requires an admin account.
func (c *Client) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	var resp DashboardResponse
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListUsers fetches a page of registered users ordered by creation time.
func (c *Client) ListUsers(ctx context.Context, skip, limit int) (*UsersPage, error) {
	var page UsersPage
	path := fmt.Sprintf("/admin/users?skip=%d&limit=%d", skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ToggleUserActive flips a user's active flag. The backend refuses to
// deactivate admin accounts.
func (c *Client) ToggleUserActive(ctx context.Context, userID string) (*StatusResponse, error) {
	var resp StatusResponse
	path := fmt.Sprintf("/admin/users/%s/toggle-active", url.PathEscape(userID))
	if err := c.do(ctx, http.MethodPut, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
