// Package intent is a narrow HTTP client for the external natural-language
// intent extractor consumed by POST /concierge/chat.
package intent

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/iaros/concierge/internal/apperror"
)

// Request is the outbound payload sent to the intent extractor.
type Request struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// Extracted is the structured intent the extractor returns. Fields are
// pointers so the caller can tell "not extracted" from a zero value.
type Extracted struct {
	Destination   *string  `json:"destination"`
	Origin        *string  `json:"origin"`
	DepartureDate *string  `json:"departure_date"`
	ReturnDate    *string  `json:"return_date"`
	Budget        *float64 `json:"budget"`
}

type extractResponse struct {
	Data Extracted `json:"data"`
}

// Client calls the external intent extractor.
type Client struct {
	http  *resty.Client
	model string
}

// New builds a Client against baseURL, tagging every request with model.
func New(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		http:  resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		model: model,
	}
}

// Extract sends message to the extractor and returns its best-effort
// structured intent. A transport or non-2xx failure is reported as an
// apperror.IntentExtraction error — the chat endpoint degrades this into
// a success response carrying the extraction failure, never a hard error.
func (c *Client) Extract(ctx context.Context, message string) (Extracted, error) {
	var out extractResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(Request{Message: message, Model: c.model}).
		SetResult(&out).
		Post("/extract")
	if err != nil {
		return Extracted{}, apperror.IntentExtraction("extract", "intent extractor unreachable", err)
	}
	if resp.IsError() {
		return Extracted{}, apperror.IntentExtraction("extract", "intent extractor returned "+resp.Status(), nil)
	}
	return out.Data, nil
}
