package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/tacks/internal/board"
	"github.com/alfredjeanlab/tacks/internal/model"
)

// HTTPClient implements BoardClient using the tacks HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Boards ---

func (c *HTTPClient) CreateBoard(ctx context.Context, req *CreateBoardRequest) (*model.Board, error) {
	var b model.Board
	if err := c.doJSON(ctx, http.MethodPost, "/v1/boards", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) GetBoard(ctx context.Context, id string) (*model.Board, error) {
	var b model.Board
	if err := c.doJSON(ctx, http.MethodGet, "/v1/boards/"+url.PathEscape(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) ListBoards(ctx context.Context) (*ListBoardsResponse, error) {
	var resp ListBoardsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/boards", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ReplaceBoard(ctx context.Context, b *model.Board) (*model.Board, error) {
	var out model.Board
	if err := c.doJSON(ctx, http.MethodPut, "/v1/boards/"+url.PathEscape(b.ID), b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateBoard(ctx context.Context, id string, req *UpdateBoardRequest) (*model.Board, error) {
	var b model.Board
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/boards/"+url.PathEscape(id), req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) DeleteBoard(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/boards/"+url.PathEscape(id), nil, nil)
}

// --- Cards ---

func (c *HTTPClient) CreateCard(ctx context.Context, boardID string, req *CreateCardRequest) (*model.Card, error) {
	var card model.Card
	path := "/v1/boards/" + url.PathEscape(boardID) + "/cards"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *HTTPClient) GetCard(ctx context.Context, boardID, cardID string) (*model.Card, error) {
	var card model.Card
	path := "/v1/boards/" + url.PathEscape(boardID) + "/cards/" + url.PathEscape(cardID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *HTTPClient) ListCards(ctx context.Context, boardID string, filter model.CardFilter) (*ListCardsResponse, error) {
	q := url.Values{}
	if filter.ColumnID != "" {
		q.Set("column", filter.ColumnID)
	}
	if len(filter.Priority) > 0 {
		ps := make([]string, len(filter.Priority))
		for i, p := range filter.Priority {
			ps[i] = string(p)
		}
		q.Set("priority", strings.Join(ps, ","))
	}
	if len(filter.Tags) > 0 {
		q.Set("tags", strings.Join(filter.Tags, ","))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Sort != "" {
		q.Set("sort", filter.Sort)
	}
	if filter.DueBefore != nil {
		q.Set("due_before", filter.DueBefore.Format(time.RFC3339))
	}
	if filter.DueAfter != nil {
		q.Set("due_after", filter.DueAfter.Format(time.RFC3339))
	}
	if filter.Completed != nil {
		q.Set("completed", strconv.FormatBool(*filter.Completed))
	}
	if filter.Blocked != nil {
		q.Set("blocked", strconv.FormatBool(*filter.Blocked))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	path := "/v1/boards/" + url.PathEscape(boardID) + "/cards"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListCardsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateCard(ctx context.Context, boardID, cardID string, patch *model.CardPatch) (*model.Card, error) {
	var card model.Card
	path := "/v1/boards/" + url.PathEscape(boardID) + "/cards/" + url.PathEscape(cardID)
	if err := c.doJSON(ctx, http.MethodPatch, path, patch, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *HTTPClient) MoveCard(ctx context.Context, boardID, cardID, columnID string, pos board.Position) (*model.Card, error) {
	body := map[string]any{
		"columnId": columnID,
		"position": pos,
	}
	var card model.Card
	path := "/v1/boards/" + url.PathEscape(boardID) + "/cards/" + url.PathEscape(cardID) + "/move"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *HTTPClient) DeleteCard(ctx context.Context, boardID, cardID string) error {
	path := "/v1/boards/" + url.PathEscape(boardID) + "/cards/" + url.PathEscape(cardID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// --- Batch ---

func (c *HTTPClient) ApplyBatch(ctx context.Context, boardID string, ops []board.Operation) ([]*model.Card, error) {
	body := map[string]any{"operations": ops}
	var resp struct {
		Cards []*model.Card `json:"cards"`
	}
	path := "/v1/boards/" + url.PathEscape(boardID) + "/batch"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

// --- Events ---

// WatchEvents consumes the server-sent event stream, invoking fn for
// each event until ctx is canceled or the stream ends. Callers that
// want reconnection resume from the last Event.ID they saw.
func (c *HTTPClient) WatchEvents(ctx context.Context, req *WatchRequest, fn func(Event)) error {
	path := "/v1/events/stream"
	if len(req.Topics) > 0 {
		path += "?topics=" + url.QueryEscape(strings.Join(req.Topics, ","))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	if req.LastEventID != "" {
		httpReq.Header.Set("Last-Event-ID", req.LastEventID)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var evt Event
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			// Blank line dispatches the accumulated event.
			if evt.Topic != "" || len(evt.Data) > 0 {
				fn(evt)
			}
			evt = Event{}
		case strings.HasPrefix(line, ":"):
			// Keepalive comment.
		case strings.HasPrefix(line, "id:"):
			evt.ID = strings.TrimSpace(line[len("id:"):])
		case strings.HasPrefix(line, "event:"):
			evt.Topic = strings.TrimSpace(line[len("event:"):])
		case strings.HasPrefix(line, "data:"):
			evt.Data = json.RawMessage(strings.TrimSpace(line[len("data:"):]))
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("reading stream: %w", err)
	}
	return nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
