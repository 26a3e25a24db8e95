// Package backend talks to the practical generation server over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zhubert/ecehelper/internal/config"
	perrors "github.com/zhubert/ecehelper/internal/errors"
	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/practical"
)

// Endpoints
const (
	ChatPath      = "/api/chat"
	PracticalPath = "/api/ece-practical"
	PDFPath       = "/api/generate-pdf"
	HealthPath    = "/api/health"
	AgentsPath    = "/api/agents"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// Turn is one {role, content} pair of the chat history sent upstream.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is the normalized chat response. Content is empty when the server
// sent no text.
type Reply struct {
	Content   string
	Practical *practical.Result
}

// chatResponse is the wire shape of /api/chat. Older servers answer with
// "message", current ones with "response".
type chatResponse struct {
	Message  *string           `json:"message"`
	Response *string           `json:"response"`
	ECEData  *practical.Result `json:"ece_data"`
}

// text returns the reply text, preferring "message" over "response".
func (r chatResponse) text() string {
	if r.Message != nil && *r.Message != "" {
		return *r.Message
	}
	if r.Response != nil {
		return *r.Response
	}
	return ""
}

// Health is the /api/health payload.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Agents is the /api/agents payload.
type Agents struct {
	Available   []string `json:"available_agents"`
	Status      string   `json:"status"`
	Description string   `json:"description"`
}

// errorBody is the JSON error shape shared by all endpoints.
type errorBody struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// Client calls the backend. The zero value is not usable; use New.
type Client struct {
	mu      sync.RWMutex
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// New creates a client for baseURL with a per-request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger.WithComponent("backend"),
	}
}

// NewFromConfig creates a client from the loaded config.
func NewFromConfig(cfg *config.Config) *Client {
	return New(cfg.GetBackendURL(), cfg.GetRequestTimeout())
}

// BaseURL returns the server the client talks to.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points the client at another server. Requests already running
// keep their URL.
func (c *Client) SetBaseURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(u, "/")
}

// Chat sends the conversation history and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, turns []Turn) (Reply, error) {
	var resp chatResponse
	if err := c.postJSON(ctx, ChatPath, map[string]any{"messages": turns}, &resp); err != nil {
		return Reply{}, err
	}
	return Reply{Content: resp.text(), Practical: resp.ECEData}, nil
}

// Practical asks the server to generate a practical for topic.
func (c *Client) Practical(ctx context.Context, topic string) (practical.Result, error) {
	var res practical.Result
	if err := c.postJSON(ctx, PracticalPath, map[string]string{"topic": topic}, &res); err != nil {
		return practical.Result{}, err
	}
	return res, nil
}

// GeneratePDF compiles a LaTeX document on the server and returns the PDF bytes.
func (c *Client) GeneratePDF(ctx context.Context, latex string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodPost, PDFPath, map[string]string{"latex": latex})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(PDFPath, resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perrors.BackendRequestFailed(PDFPath, err)
	}

	// Some deployments answer 200 with a JSON error instead of a PDF.
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && (eb.Error != "" || eb.ErrorMessage != "") {
			return nil, perrors.BackendStatus(PDFPath, resp.StatusCode, firstNonEmpty(eb.Error, eb.ErrorMessage))
		}
	}
	return data, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.getJSON(ctx, HealthPath, &h)
	return h, err
}

// Agents lists the agents the server has loaded.
func (c *Client) Agents(ctx context.Context) (Agents, error) {
	var a Agents
	err := c.getJSON(ctx, AgentsPath, &a)
	return a, err
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(path, resp, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(path, resp, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, perrors.BackendRequestFailed(path, err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, rdr)
	if err != nil {
		return nil, perrors.BackendRequestFailed(path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed", "method", method, "path", path, "error", err)
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, perrors.BackendTimeout(path, err)
		}
		return nil, perrors.BackendRequestFailed(path, err)
	}
	c.log.Debug("request done", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// checkStatus turns a non-2xx response into a Backend error carrying the
// server's error text when it sent one.
func checkStatus(path string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	detail := ""
	if json.Unmarshal(data, &eb) == nil {
		detail = firstNonEmpty(eb.Error, eb.ErrorMessage)
	} else {
		detail = strings.TrimSpace(string(data))
	}
	return perrors.BackendStatus(path, resp.StatusCode, detail)
}

func decode(path string, resp *http.Response, out any) error {
	if err := checkStatus(path, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return perrors.BackendDecodeFailed(path, fmt.Errorf("decode: %w", err))
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
