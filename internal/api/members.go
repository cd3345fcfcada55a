package api

import (
	"context"
	"fmt"
	"net/http"
)

// lists members of a project
func (c *Client) Members(ctx context.Context, projectID int64) ([]ProjectMember, error) {
	var members []ProjectMember

	path := fmt.Sprintf("/api/v1/projects/%d/members", projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &members); err != nil {
		return nil, err
	}

	return members, nil
}

// invites an existing account into a project by email
func (c *Client) AddMemberByEmail(ctx context.Context, projectID int64, req AddMemberRequest) error {
	path := fmt.Sprintf("/api/v1/projects/%d/members/by-email", projectID)
	return c.do(ctx, http.MethodPost, path, nil, req, nil)
}

// removes a member from a project
func (c *Client) RemoveMember(ctx context.Context, projectID, userID int64) error {
	path := fmt.Sprintf("/api/v1/projects/%d/members/%d", projectID, userID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
