// Package hops talks to the words service that knows which words are one
// hop apart.
package hops

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

type LinkResult int

const (
	// Unknown means the service could not answer.
	Unknown LinkResult = iota
	Linked
	NotLinked
)

func (r LinkResult) String() string {
	switch r {
	case Linked:
		return "linked"
	case NotLinked:
		return "not-linked"
	}
	return "unknown"
}

type Config struct {
	BaseURL     string
	HeaderName  string
	HeaderValue string
	Timeout     time.Duration
}

type Client struct {
	baseURL     string
	headerName  string
	headerValue string
	httpClient  *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		headerName:  cfg.HeaderName,
		headerValue: cfg.HeaderValue,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type linkRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Check asks whether from and to are directly linked. Any 2xx answer means
// linked, any other status means not linked, and a failed request is Unknown.
func (c *Client) Check(ctx context.Context, from, to string) LinkResult {
	body, err := json.Marshal(linkRequest{From: from, To: to})
	if err != nil {
		return Unknown
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/linked", bytes.NewReader(body))
	if err != nil {
		log.Printf("ERROR [hops.Check] from=%s to=%s: %v", from, to, err)
		return Unknown
	}
	req.Header.Set("Content-Type", "application/json")
	if c.headerName != "" {
		req.Header.Set(c.headerName, c.headerValue)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("ERROR [hops.Check] from=%s to=%s: %v", from, to, err)
		return Unknown
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Linked
	}
	return NotLinked
}
