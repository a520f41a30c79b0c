package llamacloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// GetExtractionAgentByName looks up a LlamaExtract agent by name within a project.
func (c *Client) GetExtractionAgentByName(ctx context.Context, projectID, name string) (*ExtractAgent, error) {
	q := c.orgQuery()
	q.Set("project_id", projectID)
	u, err := c.constructAPIEndpoint("/extraction/extraction-agents/by-name/"+url.PathEscape(name), q)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var agent ExtractAgent
	if err := c.do(req, &agent); err != nil {
		return nil, fmt.Errorf("failed to get extraction agent '%s': %w", name, err)
	}
	return &agent, nil
}

// UploadFile uploads a document to the project so that it can be extracted.
func (c *Client) UploadFile(ctx context.Context, projectID, filename string, content io.Reader) (*File, error) {
	q := c.orgQuery()
	q.Set("project_id", projectID)
	u, err := c.constructAPIEndpoint("/files", q)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("upload_file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var f File
	if err := c.do(req, &f); err != nil {
		return nil, fmt.Errorf("failed to upload file %s: %w", filename, err)
	}
	return &f, nil
}

// CreateExtractionJob queues the extraction of an uploaded file by an agent.
func (c *Client) CreateExtractionJob(ctx context.Context, agentID, fileID string) (*ExtractJob, error) {
	u, err := c.constructAPIEndpoint("/extraction/jobs", c.orgQuery())
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{
		"extraction_agent_id": agentID,
		"file_id":             fileID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction job: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var job ExtractJob
	if err := c.do(req, &job); err != nil {
		return nil, fmt.Errorf("failed to create extraction job: %w", err)
	}
	return &job, nil
}

// GetExtractionJob returns the current state of an extraction job.
func (c *Client) GetExtractionJob(ctx context.Context, jobID string) (*ExtractJob, error) {
	u, err := c.constructAPIEndpoint("/extraction/jobs/"+url.PathEscape(jobID), c.orgQuery())
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var job ExtractJob
	if err := c.do(req, &job); err != nil {
		return nil, fmt.Errorf("failed to get extraction job %s: %w", jobID, err)
	}
	return &job, nil
}

// GetExtractionResult returns the result of a finished extraction job.
func (c *Client) GetExtractionResult(ctx context.Context, jobID string) (*ExtractRun, error) {
	u, err := c.constructAPIEndpoint("/extraction/jobs/"+url.PathEscape(jobID)+"/result", c.orgQuery())
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var run ExtractRun
	if err := c.do(req, &run); err != nil {
		return nil, fmt.Errorf("failed to get result of extraction job %s: %w", jobID, err)
	}
	return &run, nil
}

// WaitForExtractionJob polls the job until it finishes or ctx is done.
func (c *Client) WaitForExtractionJob(ctx context.Context, jobID string) (*ExtractJob, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		job, err := c.GetExtractionJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Status.Done() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gave up waiting for extraction job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Extractor runs LlamaExtract agents within the client's project.
type Extractor struct {
	client *Client
}

// Extractor returns a handle to LlamaExtract scoped to the client's credentials.
func (c *Client) Extractor() *Extractor {
	return &Extractor{client: c}
}

// GetAgent resolves the project and returns the named extraction agent.
func (e *Extractor) GetAgent(ctx context.Context, name string) (*Agent, error) {
	project, err := e.client.GetProject(ctx)
	if err != nil {
		return nil, err
	}
	agent, err := e.client.GetExtractionAgentByName(ctx, project.ID, name)
	if err != nil {
		return nil, err
	}
	return &Agent{client: e.client, projectID: project.ID, agent: agent}, nil
}

// Agent is a resolved extraction agent ready to process documents.
type Agent struct {
	client    *Client
	projectID string
	agent     *ExtractAgent
}

// Extract uploads the document, runs the agent on it and returns the extracted data.
// A job that ends in ERROR or CANCELLED is reported as an error.
func (a *Agent) Extract(ctx context.Context, filename string, content io.Reader) (*ExtractRun, error) {
	f, err := a.client.UploadFile(ctx, a.projectID, filename, content)
	if err != nil {
		return nil, err
	}
	job, err := a.client.CreateExtractionJob(ctx, a.agent.ID, f.ID)
	if err != nil {
		return nil, err
	}
	job, err = a.client.WaitForExtractionJob(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case JobStatusSuccess, JobStatusPartialSuccess:
		return a.client.GetExtractionResult(ctx, job.ID)
	default:
		if job.Error != "" {
			return nil, fmt.Errorf("extraction job %s finished with status %s: %s", job.ID, job.Status, job.Error)
		}
		return nil, fmt.Errorf("extraction job %s finished with status %s", job.ID, job.Status)
	}
}
