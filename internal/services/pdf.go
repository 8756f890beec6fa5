package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/starwalkn/gotenberg-go-client/v8"
	"github.com/starwalkn/gotenberg-go-client/v8/document"
)

// Renderer is the PDF-rendering capability the assemblers depend on. Empty
// bytes mean failure and callers must treat them as such.
type Renderer interface {
	RenderFromHTML(ctx context.Context, html string) ([]byte, error)
}

type PDFService struct {
	client  *gotenberg.Client
	timeout time.Duration
}

func NewPDFService(gotenbergURL string, timeoutStr string) (*PDFService, error) {
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
	}

	client, err := gotenberg.NewClient(gotenbergURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gotenberg client: %w", err)
	}

	return &PDFService{
		client:  client,
		timeout: timeout,
	}, nil
}

// RenderFromHTML converts an HTML document body to PDF bytes.
func (s *PDFService) RenderFromHTML(ctx context.Context, html string) ([]byte, error) {
	return s.convertWithRetry(ctx, html, 3)
}

func (s *PDFService) convertWithRetry(ctx context.Context, html string, maxRetries int) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		convertCtx, cancel := context.WithTimeout(ctx, s.timeout)

		doc, err := document.FromReader("index.html", strings.NewReader(html))
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to create document from reader: %w", err)
		}

		req := gotenberg.NewLibreOfficeRequest(doc)

		resp, err := s.client.Send(convertCtx, req)
		if err == nil {
			pdf, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			cancel()
			if readErr != nil {
				return nil, fmt.Errorf("failed to read converted document: %w", readErr)
			}
			return pdf, nil
		}
		cancel()

		lastErr = err
		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	return nil, fmt.Errorf("failed to convert document after %d attempts: %w", maxRetries, lastErr)
}

func (s *PDFService) Close() error {
	return nil
}
