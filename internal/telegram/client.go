// Package telegram posts photos and polls to a single chat through the
// Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sender publishes to the configured chat. Each call is one API request;
// nothing is retried.
type Sender interface {
	SendPhoto(ctx context.Context, caption, photoPath string) (*Message, error)
	SendPoll(ctx context.Context, question string, options []string) (*Message, error)
}

// Message is the part of the sent message we care about.
type Message struct {
	MessageID int64 `json:"message_id"`
	Date      int64 `json:"date"`
}

// Config holds the bot credentials and destination.
type Config struct {
	Token   string
	ChatID  string
	BaseURL string // Default: "https://api.telegram.org"
	// Timeout bounds a single API call. Default: 30s.
	Timeout time.Duration
}

const (
	DefaultBaseURL = "https://api.telegram.org"
	DefaultTimeout = 30 * time.Second

	// ParseMode is how captions are interpreted.
	ParseMode = "HTML"

	maxErrorBody = 64 << 10
)

// Validate checks that the token and chat are set.
func (c Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("TG_BOT_TOKEN is required")
	}
	if c.ChatID == "" {
		return fmt.Errorf("TG_CHAT_ID is required")
	}
	return nil
}

// Client is the HTTP implementation of Sender.
type Client struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		token:   cfg.Token,
		chatID:  cfg.ChatID,
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// SendPhoto uploads the image at photoPath with an HTML caption.
func (c *Client) SendPhoto(ctx context.Context, caption, photoPath string) (*Message, error) {
	photo, err := os.ReadFile(photoPath)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := [][2]string{
		{"chat_id", c.chatID},
		{"caption", caption},
		{"parse_mode", ParseMode},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	part, err := w.CreateFormFile("photo", filepath.Base(photoPath))
	if err != nil {
		return nil, fmt.Errorf("create photo part: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return nil, fmt.Errorf("write photo part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	return c.call(ctx, "sendPhoto", &body, w.FormDataContentType())
}

// SendPoll posts a non-anonymous poll.
func (c *Client) SendPoll(ctx context.Context, question string, options []string) (*Message, error) {
	opts, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode poll options: %w", err)
	}

	form := url.Values{}
	form.Set("chat_id", c.chatID)
	form.Set("question", question)
	form.Set("options", string(opts))
	form.Set("is_anonymous", "false")

	return c.call(ctx, "sendPoll", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, body io.Reader, contentType string) (*Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(method), body)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: create request: %w", method, c.scrub(err))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, c.scrub(err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return nil, fmt.Errorf("telegram %s: read response: %w", method, err)
	}

	var parsed apiResponse
	decodeErr := json.Unmarshal(data, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || (decodeErr == nil && !parsed.OK) {
		apiErr := &APIError{Method: method, StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = parsed.ErrorCode
			apiErr.Description = parsed.Description
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("telegram %s: decode response: %w", method, decodeErr)
	}

	var msg Message
	if len(parsed.Result) > 0 {
		if err := json.Unmarshal(parsed.Result, &msg); err != nil {
			return nil, fmt.Errorf("telegram %s: decode message: %w", method, err)
		}
	}
	return &msg, nil
}

func (c *Client) endpoint(method string) string {
	return c.baseURL + "/bot" + c.token + "/" + method
}

// scrub removes the bot token from transport errors, which quote the URL.
func (c *Client) scrub(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = strings.ReplaceAll(ue.URL, c.token, "<token>")
	}
	return err
}
