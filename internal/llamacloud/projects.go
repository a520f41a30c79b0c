package llamacloud

import (
	"context"
	"fmt"
	"net/http"
)

// projectName returns the configured project name, or LlamaCloud's default project.
func (c *Client) projectName() string {
	if c.creds.ProjectName != "" {
		return c.creds.ProjectName
	}
	return DefaultProjectName
}

// GetProject looks up the project the client is scoped to.
func (c *Client) GetProject(ctx context.Context) (*Project, error) {
	name := c.projectName()

	q := c.orgQuery()
	q.Set("project_name", name)
	u, err := c.constructAPIEndpoint("/projects", q)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var projects []Project
	if err := c.do(req, &projects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	for i := range projects {
		if projects[i].Name == name {
			return &projects[i], nil
		}
	}
	return nil, fmt.Errorf("project '%s' not found", name)
}
