package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAPIURL = "https://discord.com/api/v10"

	// MaxContentLength — лимит длины сообщения Discord (в символах).
	MaxContentLength = 2000

	maxPageSize = 100 // больше за один запрос история не отдаётся
)

// Client — REST-клиент Discord с токеном бота.
type Client struct {
	http    *http.Client
	token   string
	baseURL string
}

// NewClient создаёт клиента. baseURL == "" — DefaultAPIURL.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ChannelMessages возвращает до limit последних сообщений канала, от новых
// к старым. Больше 100 сообщений забирается постранично через before=.
func (c *Client) ChannelMessages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	var out []Message
	before := ""
	for len(out) < limit {
		page := min(limit-len(out), maxPageSize)
		q := url.Values{}
		q.Set("limit", strconv.Itoa(page))
		if before != "" {
			q.Set("before", before)
		}

		var msgs []Message
		if err := c.do(ctx, http.MethodGet, "/channels/"+channelID+"/messages?"+q.Encode(), nil, &msgs); err != nil {
			return out, err
		}
		out = append(out, msgs...)
		if len(msgs) < page {
			break // история кончилась
		}
		before = msgs[len(msgs)-1].ID
	}
	return out, nil
}

type allowedMentions struct {
	Parse []string `json:"parse"`
}

type messageBody struct {
	Content         string           `json:"content"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
}

func newMessageBody(content string) messageBody {
	// без пингов: в тексте сводки могут оказаться @ и имена ролей
	return messageBody{Content: content, AllowedMentions: &allowedMentions{Parse: []string{}}}
}

func (c *Client) SendMessage(ctx context.Context, channelID, content string) (Message, error) {
	var m Message
	err := c.do(ctx, http.MethodPost, "/channels/"+channelID+"/messages", newMessageBody(content), &m)
	return m, err
}

func (c *Client) EditMessage(ctx context.Context, channelID, messageID, content string) (Message, error) {
	var m Message
	err := c.do(ctx, http.MethodPatch, "/channels/"+channelID+"/messages/"+messageID, newMessageBody(content), &m)
	return m, err
}

func (c *Client) Channel(ctx context.Context, channelID string) (Channel, error) {
	var ch Channel
	err := c.do(ctx, http.MethodGet, "/channels/"+channelID, nil, &ch)
	return ch, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "DiscordBot (https://github.com/EgorLis/kstracker, 1.0)")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if len(b) == 0 || json.Unmarshal(b, apiErr) != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %w", method, path, apiErr)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
