package network

import (
	"context"
	"io"
	"net/http"
)

// go:generate mockgen -source network/http.go -destination=tests/mock/network/http.go -package=mock
type Http interface {
	// Get returns the response body and status code. A non 2xx status is not an error.
	Get(ctx context.Context, url string) ([]byte, int, error)
}

type DefaultHttp struct {
	client *http.Client
}

func NewHttp() Http {
	return &DefaultHttp{
		client: &http.Client{},
	}
}

func (d *DefaultHttp) Get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, 0, err
	}

	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)

	return buf, resp.StatusCode, err
}
