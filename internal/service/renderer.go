package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kitchenlog"
)

// HTTPRenderer calls an external page-rendering service. The service receives
// a RenderRequest as JSON and answers with the PDF body.
type HTTPRenderer struct {
	endpoint string
	client   *http.Client
}

var _ Renderer = (*HTTPRenderer)(nil)

func NewHTTPRenderer(endpoint string, timeout time.Duration) *HTTPRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPRenderer{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

func (r *HTTPRenderer) RenderPDF(ctx context.Context, req RenderRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode render request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kitchenlog.ErrRendererUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kitchenlog.ErrRendererUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", kitchenlog.ErrRendererUnavailable, resp.StatusCode, bytes.TrimSpace(msg))
	}
	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", kitchenlog.ErrRendererUnavailable, err)
	}
	return pdf, nil
}
