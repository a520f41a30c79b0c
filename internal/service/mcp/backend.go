package mcp

import (
	"context"
	"io"

	"github.com/mcpjungle/llamacloud-mcp/internal/llamacloud"
)

// Backend is the remote service that tools forward their requests to.
type Backend interface {
	// Retrieve queries the named retrieval index.
	Retrieve(ctx context.Context, creds llamacloud.Credentials, index, query string) ([]llamacloud.ScoredNode, error)

	// Extract runs the named extraction agent against a document.
	Extract(
		ctx context.Context, creds llamacloud.Credentials, agent, filename string, content io.Reader,
	) (*llamacloud.ExtractRun, error)
}

// CloudBackend is the Backend backed by the LlamaCloud API.
// A new llamacloud.Client is built for every call so that tools never share credentials.
type CloudBackend struct {
	baseURL string
	opts    []llamacloud.Option
}

// NewCloudBackend creates a Backend that talks to the LlamaCloud API at baseURL.
func NewCloudBackend(baseURL string, opts ...llamacloud.Option) *CloudBackend {
	return &CloudBackend{baseURL: baseURL, opts: opts}
}

func (b *CloudBackend) Retrieve(
	ctx context.Context, creds llamacloud.Credentials, index, query string,
) ([]llamacloud.ScoredNode, error) {
	c := llamacloud.NewClient(b.baseURL, creds, b.opts...)
	return c.Index(index).Retrieve(ctx, query)
}

func (b *CloudBackend) Extract(
	ctx context.Context, creds llamacloud.Credentials, agent, filename string, content io.Reader,
) (*llamacloud.ExtractRun, error) {
	c := llamacloud.NewClient(b.baseURL, creds, b.opts...)
	a, err := c.Extractor().GetAgent(ctx, agent)
	if err != nil {
		return nil, err
	}
	return a.Extract(ctx, filename, content)
}
