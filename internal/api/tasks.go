package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// filters for task listings
type TaskQuery struct {
	ProjectID  int64
	Page       int
	Size       int
	Status     string
	Priority   string
	AssigneeID int64
	Keyword    string
}

func (q TaskQuery) values() url.Values {
	values := url.Values{}
	setInt64(values, "projectId", q.ProjectID)
	setInt(values, "page", q.Page)
	setInt(values, "size", q.Size)
	setString(values, "status", q.Status)
	setString(values, "priority", q.Priority)
	setInt64(values, "assigneeId", q.AssigneeID)
	setString(values, "keyword", q.Keyword)

	return values
}

// lists tasks in a project
func (c *Client) Tasks(ctx context.Context, query TaskQuery) (*Page[Task], error) {
	var page Page[Task]

	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks", query.values(), nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// lists tasks assigned to the authenticated user; the project filter is
// ignored on this endpoint
func (c *Client) MyTasks(ctx context.Context, query TaskQuery) (*Page[Task], error) {
	query.ProjectID = 0
	query.AssigneeID = 0

	var page Page[Task]

	if err := c.do(ctx, http.MethodGet, "/api/v1/me/tasks", query.values(), nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// creates a task
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var task Task

	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", nil, req, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

// transitions a task to a new status
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int64, status string) (*Task, error) {
	var task Task

	path := fmt.Sprintf("/api/v1/tasks/%d/status", taskID)
	if err := c.do(ctx, http.MethodPut, path, nil, updateStatusRequest{Status: status}, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

// reassigns a task to another member
func (c *Client) UpdateTaskAssignee(ctx context.Context, taskID, userID int64) (*Task, error) {
	var task Task

	path := fmt.Sprintf("/api/v1/tasks/%d/assignee", taskID)
	if err := c.do(ctx, http.MethodPut, path, nil, updateAssigneeRequest{UserID: userID}, &task); err != nil {
		return nil, err
	}

	return &task, nil
}
