package receipt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Printer dispatches a rendered receipt to a physical printer.
type Printer interface {
	// Print sends the HTML to the printer.
	Print(ctx context.Context, html string) error
}

// bridgePrinter posts receipts to an external print bridge over HTTP.
type bridgePrinter struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewBridgePrinter creates a printer that posts to the given bridge URL.
func NewBridgePrinter(url string, logger zerolog.Logger) Printer {
	return &bridgePrinter{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.With().Str("component", "print-bridge").Logger(),
	}
}

// Print sends the HTML to the printer.
func (p *bridgePrinter) Print(ctx context.Context, html string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to build print request: %w", err)
	}
	req.Header.Set("Content-Type", "text/html; charset=utf-8")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error().Err(err).Msg("print bridge unreachable")
		return fmt.Errorf("print bridge unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		p.logger.Error().Int("status", resp.StatusCode).Msg("print bridge rejected receipt")
		return fmt.Errorf("print bridge returned status %d", resp.StatusCode)
	}

	p.logger.Debug().Msg("receipt dispatched to print bridge")
	return nil
}
