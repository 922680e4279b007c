package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/antigravity-labs/ultra-console/internal/shared/id"
)

// Client wraps resty with retries and rate limiting for the backend's
// REST endpoints.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
}

// New creates a production-ready client for baseURL.
func New(baseURL string) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	restyClient := resty.New()
	restyClient.
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", "UltraConsole/1.0").
		SetTransport(retryClient.HTTPClient.Transport)

	return &Client{
		resty:   restyClient,
		limiter: rate.NewLimiter(rate.Limit(20), 20),
	}
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return c.resty.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", id.NewRequestID().String()), nil
}

// Health fetches the backend health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out Health
	resp, err := req.SetResult(&out).Get("/api/health")
	if err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("health: backend returned %s", resp.Status())
	}
	return &out, nil
}

// ListModels fetches the selectable model catalog.
func (c *Client) ListModels(ctx context.Context) (*ModelCatalog, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out ModelCatalog
	resp, err := req.SetResult(&out).Get("/api/models")
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list models: backend returned %s", resp.Status())
	}
	return &out, nil
}

// ListConversations fetches all conversation summaries for the sidebar.
func (c *Client) ListConversations(ctx context.Context) ([]ConversationSummary, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out conversationList
	resp, err := req.SetResult(&out).Get("/api/conversations")
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list conversations: backend returned %s", resp.Status())
	}
	return out.Conversations, nil
}

// GetConversation fetches one conversation's full message history.
func (c *Client) GetConversation(ctx context.Context, conversationID string) (*Conversation, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out Conversation
	resp, err := req.
		SetResult(&out).
		SetPathParam("id", conversationID).
		Get("/api/conversations/{id}")
	if err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", conversationID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get conversation %s: backend returned %s", conversationID, resp.Status())
	}
	return &out, nil
}

// CreateConversation creates an empty conversation with title.
func (c *Client) CreateConversation(ctx context.Context, title string) (*ConversationSummary, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out createConversationResponse
	resp, err := req.
		SetBody(createConversationRequest{Title: title}).
		SetResult(&out).
		Post("/api/conversations")
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create conversation: backend returned %s", resp.Status())
	}
	return &ConversationSummary{ID: out.ConversationID, Title: out.Title}, nil
}

// DeleteConversation removes a conversation and its history.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	resp, err := req.
		SetPathParam("id", conversationID).
		Delete("/api/conversations/{id}")
	if err != nil {
		return fmt.Errorf("delete conversation %s: %w", conversationID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("delete conversation %s: backend returned %s", conversationID, resp.Status())
	}
	return nil
}
