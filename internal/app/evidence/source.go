package evidence

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"

	"golang.org/x/oauth2"
)

const maxPayloadBytes = 4 << 20

// SourceConfig identifies one evidence endpoint and how to authenticate
// against it. TokenSource wins over BearerToken when both are set.
type SourceConfig struct {
	URL         string
	BearerToken string
	TokenSource oauth2.TokenSource
}

// SourceAdapter fetches a signed snapshot of account data from an external
// provider. Exactly one outbound request per Fetch; no caching and no
// retries, retry policy belongs to the caller.
type SourceAdapter struct {
	client *http.Client
	log    *logger.Logger
}

func NewSourceAdapter(client *http.Client, log *logger.Logger) *SourceAdapter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SourceAdapter{client: client, log: log}
}

func (sa *SourceAdapter) Fetch(ctx context.Context, cfg SourceConfig) (Evidence, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return Evidence{}, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}

	token := cfg.BearerToken
	if cfg.TokenSource != nil {
		tok, err := cfg.TokenSource.Token()
		if err != nil {
			return Evidence{}, fmt.Errorf("%w: token source: %v", ErrSourceRejected, err)
		}
		token = tok.AccessToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := sa.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Evidence{}, ctx.Err()
		}
		return Evidence{}, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Evidence{}, fmt.Errorf("%w: HTTP %d from %s", ErrSourceRejected, resp.StatusCode, cfg.URL)
	case resp.StatusCode/100 != 2:
		return Evidence{}, fmt.Errorf("%w: HTTP %d from %s", ErrSourceUnreachable, resp.StatusCode, cfg.URL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return Evidence{}, fmt.Errorf("%w: read body: %v", ErrSourceUnreachable, err)
	}
	if len(body) == 0 {
		return Evidence{}, fmt.Errorf("%w: empty response body from %s", ErrSourceUnreachable, cfg.URL)
	}

	sa.log.Debugf("Fetched %d bytes of evidence from %s", len(body), cfg.URL)

	return Evidence{
		SourceURL:   cfg.URL,
		RawPayload:  body,
		RetrievedAt: time.Now().UTC(),
	}, nil
}
