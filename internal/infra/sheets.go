// README: Google Sheets API client bound to a caller-supplied OAuth access token.
package infra

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsConfig controls how Sheets clients are built. Both fields are optional.
type SheetsConfig struct {
	// Endpoint replaces the public API base URL, e.g. for a local fake.
	Endpoint string
	// HTTPClient is the transport the bearer token is layered on.
	HTTPClient *http.Client
}

// NewSheets returns a Sheets service that sends accessToken as a bearer token
// on every call. The token is forwarded as is and never refreshed.
func NewSheets(ctx context.Context, cfg SheetsConfig, accessToken string) (*sheets.Service, error) {
	base := cfg.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	client := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
			Base:   base.Transport,
		},
		Timeout: base.Timeout,
	}

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets.NewService: %w", err)
	}
	return svc, nil
}
