// Package rocketchat posts order lifecycle announcements to a RocketChat
// channel.
package rocketchat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrLoginRejected = errors.New("rocketchat login rejected")

// Config holds the webhook target and credentials.
type Config struct {
	Enabled  bool
	BaseURL  string
	User     string
	Password string
	Channel  string
}

// Client logs in for every message; the chat volume is a handful of
// messages per order.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a client. A nil httpClient uses a default with a timeout.
func NewClient(config Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	return &Client{config: config, http: httpClient}
}

type credentials struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status string `json:"status"`
	Data   *struct {
		UserID    string `json:"userId"`
		AuthToken string `json:"authToken"`
	} `json:"data"`
}

type message struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Send posts text to the configured channel. It is a no-op when the client
// is disabled.
func (c *Client) Send(ctx context.Context, text string) error {
	if !c.config.Enabled {
		return nil
	}

	var login loginResponse
	if err := c.post(ctx, "/api/v1/login", nil, credentials{User: c.config.User, Password: c.config.Password}, &login); err != nil {
		return fmt.Errorf("rocketchat login: %w", err)
	}
	if !strings.EqualFold(login.Status, "success") || login.Data == nil {
		return fmt.Errorf("%w: status %q", ErrLoginRejected, login.Status)
	}

	headers := map[string]string{
		"X-Auth-Token": login.Data.AuthToken,
		"X-User-Id":    login.Data.UserID,
	}
	if err := c.post(ctx, "/api/v1/chat.postMessage", headers, message{Channel: c.config.Channel, Text: text}, nil); err != nil {
		return fmt.Errorf("rocketchat post message: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
