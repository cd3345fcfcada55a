package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// filters for project listings
type ProjectQuery struct {
	Page    int
	Size    int
	Keyword string
	Status  string
}

func (q ProjectQuery) values() url.Values {
	values := url.Values{}
	setInt(values, "page", q.Page)
	setInt(values, "size", q.Size)
	setString(values, "keyword", q.Keyword)
	setString(values, "status", q.Status)

	return values
}

// lists projects visible to the authenticated user
func (c *Client) Projects(ctx context.Context, query ProjectQuery) (*Page[Project], error) {
	var page Page[Project]

	if err := c.do(ctx, http.MethodGet, "/api/v1/projects", query.values(), nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// creates a project
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var project Project

	if err := c.do(ctx, http.MethodPost, "/api/v1/projects", nil, req, &project); err != nil {
		return nil, err
	}

	return &project, nil
}

// deletes a project
func (c *Client) DeleteProject(ctx context.Context, projectID int64) error {
	path := fmt.Sprintf("/api/v1/projects/%d", projectID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// transitions a project to a new status
func (c *Client) UpdateProjectStatus(ctx context.Context, projectID int64, status string) (*Project, error) {
	var project Project

	path := fmt.Sprintf("/api/v1/projects/%d/status", projectID)
	if err := c.do(ctx, http.MethodPut, path, nil, updateStatusRequest{Status: status}, &project); err != nil {
		return nil, err
	}

	return &project, nil
}
