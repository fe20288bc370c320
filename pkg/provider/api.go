package provider

import "context"

// Api is what the services depend on; *Client is the HTTP
// implementation.
type Api interface {
	AcquireNumber(ctx context.Context, service, country string) (*Acquisition, error)
	PollStatus(ctx context.Context, activationId string) (*Status, error)
	Cancel(ctx context.Context, activationId string) error
}

var _ Api = (*Client)(nil)
