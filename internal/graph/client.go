// Package graph is a thin client for the Facebook Graph API feed and
// comments endpoints.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"
)

// RemoteError wraps a failed or malformed Graph API exchange.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("graph api %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("graph api %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// RawComment is a comment record as returned by the Graph API. Message is
// a pointer so an absent field stays nil instead of becoming an empty
// string the caller cannot distinguish.
type RawComment struct {
	ID      string  `json:"id"`
	Message *string `json:"message"`
}

// CommentsBlock is the nested comments summary some feed records carry.
type CommentsBlock struct {
	Data []RawComment `json:"data"`
}

// RawPost is a post record from the page feed. Optional fields decode to
// nil when absent; callers filter on that.
type RawPost struct {
	ID       string         `json:"id"`
	Message  *string        `json:"message"`
	Link     *string        `json:"link"`
	Comments *CommentsBlock `json:"comments"`
}

type envelope struct {
	Data []json.RawMessage `json:"data"`
}

// Client encapsulates the Graph API HTTP client. The underlying
// connection pool is shared across concurrent fetches and released by
// Close.
type Client struct {
	client      *resty.Client
	accessToken string
	logger      *zap.Logger
}

// NewClient creates a Graph API client authenticated with the given
// bearer access token.
func NewClient(baseURL, accessToken string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Client{
		client:      client,
		accessToken: accessToken,
		logger:      logger,
	}
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) get(ctx context.Context, op, path string) ([]json.RawMessage, error) {
	res, err := c.client.R().
		WithContext(ctx).
		SetQueryParam("access_token", c.accessToken).
		Get(path)
	if err != nil {
		return nil, &RemoteError{Op: op, Err: err}
	}
	if res.IsError() {
		return nil, &RemoteError{Op: op, StatusCode: res.StatusCode(), Err: fmt.Errorf("%s", res.String())}
	}

	var env envelope
	if err := json.Unmarshal(res.Bytes(), &env); err != nil {
		return nil, &RemoteError{Op: op, StatusCode: res.StatusCode(), Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return env.Data, nil
}

// FetchPosts fetches the feed of a page with a single GET. A response
// without a data field yields an empty slice.
func (c *Client) FetchPosts(ctx context.Context, pageID string) ([]RawPost, error) {
	c.logger.Debug("Fetching page feed", zap.String("page_id", pageID))

	records, err := c.get(ctx, "feed", fmt.Sprintf("/%s/feed", pageID))
	if err != nil {
		return nil, err
	}

	posts := make([]RawPost, 0, len(records))
	for _, record := range records {
		var post RawPost
		if err := json.Unmarshal(record, &post); err != nil {
			return nil, &RemoteError{Op: "feed", Err: fmt.Errorf("failed to parse post record: %w", err)}
		}
		posts = append(posts, post)
	}

	c.logger.Debug("Fetched page feed", zap.String("page_id", pageID), zap.Int("count", len(posts)))
	return posts, nil
}

// FetchComments fetches the comments of a single post. "No comments" is a
// normal state: an empty or absent data field yields an empty slice, not
// an error.
func (c *Client) FetchComments(ctx context.Context, postID string) ([]RawComment, error) {
	c.logger.Debug("Fetching post comments", zap.String("post_id", postID))

	records, err := c.get(ctx, "comments", fmt.Sprintf("/%s/comments", postID))
	if err != nil {
		return nil, err
	}

	comments := make([]RawComment, 0, len(records))
	for _, record := range records {
		var comment RawComment
		if err := json.Unmarshal(record, &comment); err != nil {
			return nil, &RemoteError{Op: "comments", Err: fmt.Errorf("failed to parse comment record: %w", err)}
		}
		comments = append(comments, comment)
	}
	return comments, nil
}
