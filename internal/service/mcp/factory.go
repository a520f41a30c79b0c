package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mcpjungle/llamacloud-mcp/internal/descriptor"
	"github.com/mcpjungle/llamacloud-mcp/internal/llamacloud"
	"github.com/mcpjungle/llamacloud-mcp/internal/telemetry"
	"github.com/spf13/afero"
)

// Handler is a tool callable. It maps one free-text input to one free-text output.
// It never fails: remote errors are converted into a descriptive string.
type Handler func(ctx context.Context, input string) string

// FactoryConfig holds the collaborators shared by all tools built by the factory.
type FactoryConfig struct {
	Backend  Backend
	Notifier Notifier
	Metrics  telemetry.CustomMetrics

	// Fs is used to read the documents handed to extraction tools.
	Fs afero.Fs
}

func (c *FactoryConfig) backend() Backend {
	if c.Backend == nil {
		return NewCloudBackend(llamacloud.DefaultBaseURL)
	}
	return c.Backend
}

func (c *FactoryConfig) metrics() telemetry.CustomMetrics {
	if c.Metrics == nil {
		return telemetry.NewNoopCustomMetrics()
	}
	return c.Metrics
}

func (c *FactoryConfig) notifier() Notifier {
	if c.Notifier == nil {
		return NewClientLogNotifier(nil)
	}
	return c.Notifier
}

func (c *FactoryConfig) fs() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}
	return c.Fs
}

// credentials returns the LlamaCloud credentials resolved for a descriptor.
func credentials(d descriptor.ToolDescriptor) llamacloud.Credentials {
	return llamacloud.Credentials{
		APIKey:         d.APIKey,
		OrganizationID: d.OrganizationID,
		ProjectName:    d.ProjectName,
	}
}

// MakeIndexTool returns a Handler that queries the retrieval index named by the descriptor.
func MakeIndexTool(d descriptor.ToolDescriptor, c *FactoryConfig) Handler {
	creds := credentials(d)
	toolName := d.ToolName()
	backend := c.backend()
	metrics := c.metrics()
	notifier := c.notifier()

	return func(ctx context.Context, query string) string {
		started := time.Now()
		outcome := telemetry.ToolCallOutcomeError
		defer func() {
			metrics.RecordToolCall(ctx, string(d.Kind), toolName, outcome, time.Since(started))
		}()

		notifier.Info(ctx, fmt.Sprintf("Querying index: %s with query: %s", d.Name, query))

		nodes, err := backend.Retrieve(ctx, creds, d.Name, query)
		if err != nil {
			msg := fmt.Sprintf("Error querying index: %v", err)
			notifier.Error(ctx, msg)
			return msg
		}

		outcome = telemetry.ToolCallOutcomeSuccess
		return formatRetrievalNodes(nodes)
	}
}

// MakeExtractTool returns a Handler that runs the extraction agent named by the descriptor
// against the file found at the input path.
func MakeExtractTool(d descriptor.ToolDescriptor, c *FactoryConfig) Handler {
	creds := credentials(d)
	toolName := d.ToolName()
	backend := c.backend()
	metrics := c.metrics()
	notifier := c.notifier()
	fs := c.fs()

	return func(ctx context.Context, filePath string) string {
		started := time.Now()
		outcome := telemetry.ToolCallOutcomeError
		defer func() {
			metrics.RecordToolCall(ctx, string(d.Kind), toolName, outcome, time.Since(started))
		}()

		notifier.Info(ctx, fmt.Sprintf("Extracting data using agent: %s with file path: %s", d.Name, filePath))

		result, err := extractFile(ctx, backend, fs, creds, d.Name, filePath)
		if err != nil {
			msg := fmt.Sprintf("Error extracting data: %v", err)
			notifier.Error(ctx, msg)
			return msg
		}

		outcome = telemetry.ToolCallOutcomeSuccess
		return result
	}
}

func extractFile(
	ctx context.Context, b Backend, fs afero.Fs, creds llamacloud.Credentials, agent, filePath string,
) (string, error) {
	f, err := fs.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer f.Close()

	run, err := b.Extract(ctx, creds, agent, filepath.Base(filePath), f)
	if err != nil {
		return "", err
	}
	return formatExtractRun(run)
}

// MakeTool builds the Handler matching the descriptor's kind.
func MakeTool(d descriptor.ToolDescriptor, c *FactoryConfig) Handler {
	if d.Kind == descriptor.KindExtractAgent {
		return MakeExtractTool(d, c)
	}
	return MakeIndexTool(d, c)
}

// BuildRegistrations runs the factory over all descriptors, preserving their order.
func BuildRegistrations(descs []descriptor.ToolDescriptor, c *FactoryConfig) []Registration {
	regs := make([]Registration, 0, len(descs))
	for _, d := range descs {
		regs = append(regs, Registration{
			Name:        d.ToolName(),
			Description: d.Description,
			Kind:        d.Kind,
			Handler:     MakeTool(d, c),
		})
	}
	return regs
}
