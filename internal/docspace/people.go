package docspace

import (
	"context"
	"net/http"
	"strconv"
)

// ListPeople returns portal members, optionally filtered by name or email
func (c *Client) ListPeople(ctx context.Context, filter string, count, startIndex int) ([]User, *Response, error) {
	query := map[string]string{}
	if filter != "" {
		query["filterValue"] = filter
	}
	if count > 0 {
		query["count"] = strconv.Itoa(count)
	}
	if startIndex > 0 {
		query["startIndex"] = strconv.Itoa(startIndex)
	}

	var users []User
	res, err := c.do(ctx, request{method: http.MethodGet, path: "api/2.0/people", query: query}, &users)
	if err != nil {
		return nil, res, err
	}
	return users, res, nil
}

// GetSelf returns the authenticated user
func (c *Client) GetSelf(ctx context.Context) (*User, *Response, error) {
	var u User
	res, err := c.do(ctx, request{method: http.MethodGet, path: "api/2.0/people/@self"}, &u)
	if err != nil {
		return nil, res, err
	}
	return &u, res, nil
}
