// Package api is the typed HTTP/websocket client for the Lumen server. It
// keeps the session cookie across calls and converts JSON error bodies back
// into the shared sentinel errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lumenfest/lumen/internal/common"
	"github.com/lumenfest/lumen/internal/protocol"
)

type Client struct {
	baseURL string
	http    *http.Client

	sessionID string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SessionID returns the current session token, or "" when logged out.
func (c *Client) SessionID() string { return c.sessionID }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionID != "" {
		req.Header.Set("Cookie", common.SessionCookieName+"="+c.sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == common.SessionCookieName {
			c.sessionID = cookie.Value
		}
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// decodeError converts the JSON error body back into a sentinel error so
// callers can use errors.Is the same way server code does.
func decodeError(resp *http.Response) error {
	var body protocol.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	sentinel := map[string]error{
		"unauthorized":          common.ErrUnauthorized,
		"userNotFound":          common.ErrUserNotFound,
		"notFound":              common.ErrNotFound,
		"incorrectPassword":     common.ErrIncorrectPassword,
		"incorrectHardPassword": common.ErrIncorrectHardPassword,
		"incorrectAnswer":       common.ErrIncorrectAnswer,
		"tooManyRequests":       common.ErrTooManyRequests,
		"validation":            common.ErrValidation,
		"unknownQuest":          common.ErrUnknownQuest,
		"questNotEnabled":       common.ErrQuestNotEnabled,
	}[body.Error]
	if sentinel == nil {
		return fmt.Errorf("%s: %s", body.Error, body.Message)
	}
	if body.RetryAfter > 0 {
		return fmt.Errorf("%w (retry in %ds)", sentinel, body.RetryAfter)
	}
	return sentinel
}

func (c *Client) Login(ctx context.Context, username, password string) (*protocol.LoginResponse, error) {
	var out protocol.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		protocol.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.sessionID = ""
	return err
}

func (c *Client) Me(ctx context.Context) (*protocol.MeResponse, error) {
	var out protocol.MeResponse
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Reroll(ctx context.Context) (*protocol.RerollResponse, error) {
	var out protocol.RerollResponse
	if err := c.do(ctx, http.MethodPost, "/api/profile/reroll", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendMessage(ctx context.Context, text string, anonymous bool) error {
	return c.do(ctx, http.MethodPost, "/api/chat/send",
		protocol.SendMessageRequest{Text: text, IsAnonymous: anonymous}, nil)
}

func (c *Client) SubmitQuest(ctx context.Context, category, difficulty, solution string) (*protocol.SubmitQuestResponse, error) {
	var out protocol.SubmitQuestResponse
	err := c.do(ctx, http.MethodPost, "/api/quests/submit",
		protocol.SubmitQuestRequest{Category: category, Difficulty: difficulty, Solution: solution}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Hint(ctx context.Context, category string, points int) (*protocol.HintResponse, error) {
	var out protocol.HintResponse
	err := c.do(ctx, http.MethodPost, "/api/quests/hint",
		protocol.HintRequest{Category: category, Points: points}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Hack(ctx context.Context, password, text string) (*protocol.HackResponse, error) {
	var out protocol.HackResponse
	err := c.do(ctx, http.MethodPost, "/api/hack",
		protocol.HackRequest{Password: password, Text: text}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PublicMessage(ctx context.Context) (*protocol.PublicMessageResponse, error) {
	var out protocol.PublicMessageResponse
	if err := c.do(ctx, http.MethodGet, "/api/public-message", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
