package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Store struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	AverageRating *float64 `json:"average_rating"`
	RatingCount   int64    `json:"rating_count"`
}

type Rating struct {
	ID      uint `json:"id"`
	StoreID uint `json:"store_id"`
	Rating  int  `json:"rating"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Client talks to the store rating API. It holds the session token after
// Login and is not safe for concurrent Login calls.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   string
	User    User
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return err
	}
	c.Token, c.User = resp.Token, resp.User
	return nil
}

func (c *Client) Stores(ctx context.Context, query string) ([]Store, error) {
	path := "/stores"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var out []Store
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

// MyRatings maps store id to the logged-in user's rating.
func (c *Client) MyRatings(ctx context.Context) (map[uint]int, error) {
	var rs []Rating
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/ratings/user/%d", c.User.ID), nil, &rs); err != nil {
		return nil, err
	}
	out := make(map[uint]int, len(rs))
	for _, r := range rs {
		out[r.StoreID] = r.Rating
	}
	return out, nil
}

func (c *Client) Rate(ctx context.Context, storeID uint, rating int) error {
	body := map[string]any{"store_id": storeID, "rating": rating}
	return c.do(ctx, http.MethodPost, "/ratings", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var rd io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
