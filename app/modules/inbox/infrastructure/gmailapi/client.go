// Package gmailapi implements the inbox Source against a Gmail-style REST
// API. Only the handful of endpoints the watcher needs are covered: message
// search, message fetch and label modification (to mark messages read).
package gmailapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	inboxservice "github.com/fairway-collective/foursome/app/modules/inbox/application"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://gmail.googleapis.com/gmail/v1"

// Client fetches unread confirmation messages over the REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	query      string
	logger     *slog.Logger
}

// Config carries the client's connection settings.
type Config struct {
	BaseURL           string
	Query             string
	TokenSource       oauth2.TokenSource
	RequestsPerSecond float64
}

// NewClient creates a Client whose HTTP transport injects OAuth2 bearer
// tokens and whose request pacing is capped by a token-bucket limiter.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	httpClient := oauth2.NewClient(ctx, cfg.TokenSource)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		baseURL:    baseURL,
		query:      cfg.Query,
		logger:     logger,
	}
}

var _ inboxservice.Source = (*Client)(nil)

type messageList struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type messagePart struct {
	MimeType string `json:"mimeType"`
	Body     struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []messagePart `json:"parts"`
}

type message struct {
	ID      string `json:"id"`
	Payload struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
		messagePart
	} `json:"payload"`
}

// FetchUnread lists messages matching the configured search query, fetches
// each one and marks it read. Partial failures abort the poll; unread
// messages are picked up again on the next tick.
func (c *Client) FetchUnread(ctx context.Context) ([]inboxservice.Message, error) {
	list, err := c.listMessages(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]inboxservice.Message, 0, len(list.Messages))
	for _, item := range list.Messages {
		msg, err := c.getMessage(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *msg)

		if err := c.markRead(ctx, item.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) listMessages(ctx context.Context) (*messageList, error) {
	u := fmt.Sprintf("%s/users/me/messages?labelIds=INBOX&q=%s", c.baseURL, url.QueryEscape(c.query))

	var list messageList
	if err := c.getJSON(ctx, u, &list); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return &list, nil
}

func (c *Client) getMessage(ctx context.Context, id string) (*inboxservice.Message, error) {
	u := fmt.Sprintf("%s/users/me/messages/%s", c.baseURL, url.PathEscape(id))

	var msg message
	if err := c.getJSON(ctx, u, &msg); err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", id, err)
	}

	subject := "(no subject)"
	for _, h := range msg.Payload.Headers {
		if h.Name == "Subject" {
			subject = h.Value
			break
		}
	}

	return &inboxservice.Message{
		ID:      msg.ID,
		Subject: subject,
		Body:    plainTextBody(msg.Payload.messagePart),
	}, nil
}

// markRead removes the UNREAD label so the message is not fetched again.
func (c *Client) markRead(ctx context.Context, id string) error {
	u := fmt.Sprintf("%s/users/me/messages/%s/modify", c.baseURL, url.PathEscape(id))
	body, _ := json.Marshal(map[string]any{"removeLabelIds": []string{"UNREAD"}})

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to mark message %s read: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to mark message %s read: unexpected status %s", id, resp.Status)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// plainTextBody walks the MIME tree and returns the first text/plain part,
// base64url-decoded. Single-part messages keep the body at the top level.
func plainTextBody(part messagePart) string {
	if len(part.Parts) == 0 {
		return base64URLDecode(part.Body.Data)
	}
	for _, p := range part.Parts {
		if p.MimeType == "text/plain" {
			return base64URLDecode(p.Body.Data)
		}
	}
	for _, p := range part.Parts {
		if body := plainTextBody(p); body != "" {
			return body
		}
	}
	return ""
}

func base64URLDecode(data string) string {
	if data == "" {
		return ""
	}
	decoded, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}
