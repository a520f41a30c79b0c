package llamacloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GetPipelineByName looks up a managed index by name within a project.
func (c *Client) GetPipelineByName(ctx context.Context, projectID, name string) (*Pipeline, error) {
	q := url.Values{}
	q.Set("project_id", projectID)
	q.Set("pipeline_name", name)
	u, err := c.constructAPIEndpoint("/pipelines", q)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var pipelines []Pipeline
	if err := c.do(req, &pipelines); err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	for i := range pipelines {
		if pipelines[i].Name == name {
			return &pipelines[i], nil
		}
	}
	return nil, fmt.Errorf("index '%s' not found", name)
}

// RetrievePipeline runs a retrieval query against a managed index.
func (c *Client) RetrievePipeline(ctx context.Context, pipelineID string, r *RetrieveRequest) (*RetrieveResults, error) {
	u, err := c.constructAPIEndpoint("/pipelines/"+url.PathEscape(pipelineID)+"/retrieve", c.orgQuery())
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal retrieve request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var results RetrieveResults
	if err := c.do(req, &results); err != nil {
		return nil, fmt.Errorf("failed to retrieve from index: %w", err)
	}
	return &results, nil
}

// Index is a managed retrieval index addressed by name.
type Index struct {
	client *Client
	name   string
}

// Index returns a handle to the named index in the client's project.
// No request is made until the index is queried.
func (c *Client) Index(name string) *Index {
	return &Index{client: c, name: name}
}

// Retrieve resolves the project and the index, then returns the nodes most relevant to query.
func (i *Index) Retrieve(ctx context.Context, query string) ([]ScoredNode, error) {
	project, err := i.client.GetProject(ctx)
	if err != nil {
		return nil, err
	}
	pipeline, err := i.client.GetPipelineByName(ctx, project.ID, i.name)
	if err != nil {
		return nil, err
	}
	res, err := i.client.RetrievePipeline(ctx, pipeline.ID, &RetrieveRequest{Query: query})
	if err != nil {
		return nil, err
	}
	return res.RetrievalNodes, nil
}
