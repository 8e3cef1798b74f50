package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client for outbound HTTP: the donor's relay
// adapter and the ledger RPC client both build on it. Embedding exposes the
// full resty API while leaving room for shared behavior later.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client with its own configuration,
// connection pool, and state.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().
//	    SetHeader("Accept", "application/json").
//	    Get("https://relay.example.com/queue-donation")
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
