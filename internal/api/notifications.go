package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// filters for notification listings
type NotificationQuery struct {
	Page    int
	Size    int
	Type    string
	Keyword string

	// when true, only unread notifications are returned
	UnreadOnly bool
}

func (q NotificationQuery) values() url.Values {
	values := url.Values{}
	setInt(values, "page", q.Page)
	setInt(values, "size", q.Size)
	setString(values, "type", q.Type)
	setString(values, "keyword", q.Keyword)

	if q.UnreadOnly {
		values.Set("isRead", "false")
	}

	return values
}

// lists notifications for the authenticated user
func (c *Client) Notifications(ctx context.Context, query NotificationQuery) (*Page[Notification], error) {
	var page Page[Notification]

	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications", query.values(), nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// returns the number of unread notifications; the endpoint responds with a
// bare number
func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var count int64

	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications/unread-count", nil, nil, &count); err != nil {
		return 0, err
	}

	return count, nil
}

// marks one notification as read
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	path := "/api/v1/notifications/" + strconv.FormatInt(id, 10) + "/read"
	return c.do(ctx, http.MethodPut, path, nil, nil, nil)
}

// marks every notification as read
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/api/v1/notifications/read-all", nil, nil, nil)
}
