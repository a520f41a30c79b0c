package bootstrap

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mcpjungle/llamacloud-mcp/internal/descriptor"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEnv(vars map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestGetOrFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/run/secrets/api_key", []byte("  from-file\n"), 0o600))

	tests := []struct {
		name    string
		vars    map[string]string
		want    string
		wantErr bool
	}{
		{"unset", map[string]string{}, "", false},
		{"direct", map[string]string{"LLAMA_CLOUD_API_KEY": "direct"}, "direct", false},
		{"file", map[string]string{"LLAMA_CLOUD_API_KEY_FILE": "/run/secrets/api_key"}, "from-file", false},
		{
			"direct wins over file",
			map[string]string{"LLAMA_CLOUD_API_KEY": "direct", "LLAMA_CLOUD_API_KEY_FILE": "/run/secrets/api_key"},
			"direct",
			false,
		},
		{"missing file", map[string]string{"LLAMA_CLOUD_API_KEY_FILE": "/nope"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEnv(mapEnv(tt.vars), fs).GetOrFile(APIKeyEnvVar)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumbered(t *testing.T) {
	e := NewEnv(mapEnv(map[string]string{
		"INDEX_1": "a:A",
		"INDEX_2": "b:B",
		"INDEX_4": "d:D",
	}), afero.NewMemMapFs())

	assert.Equal(t, []string{"a:A", "b:B"}, e.Numbered(IndexEnvVarPrefix))
	assert.Empty(t, e.Numbered(ExtractAgentEnvVarPrefix))
}

func TestLoadSettings(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, err := LoadSettings(NewEnv(mapEnv(map[string]string{"ORG_ID": "O1"}), afero.NewMemMapFs()))
		var cfgErr *descriptor.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Contains(t, err.Error(), "LLAMA_CLOUD_API_KEY environment variable is required")
	})

	t.Run("missing org id", func(t *testing.T) {
		_, err := LoadSettings(NewEnv(mapEnv(map[string]string{"LLAMA_CLOUD_API_KEY": "K1"}), afero.NewMemMapFs()))
		var cfgErr *descriptor.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Contains(t, err.Error(), "ORG_ID environment variable is required")
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := LoadSettings(NewEnv(mapEnv(map[string]string{
			"LLAMA_CLOUD_API_KEY": "K1",
			"ORG_ID":              "O1",
		}), afero.NewMemMapFs()))
		require.NoError(t, err)
		assert.Equal(t, "streamable-http", s.Transport)
		assert.Equal(t, "8000", s.Port)
		assert.Empty(t, s.ProjectName)
		assert.Empty(t, s.Indexes)
		assert.Equal(t,
			[]string{"--org-id", "O1", "--transport", "streamable-http", "--port", "8000", "--api-key", "K1"},
			s.Args(),
		)
	})

	t.Run("legacy single index", func(t *testing.T) {
		s, err := LoadSettings(NewEnv(mapEnv(map[string]string{
			"LLAMA_CLOUD_API_KEY": "K1",
			"ORG_ID":              "O1",
			"INDEX_NAME":          "docs",
		}), afero.NewMemMapFs()))
		require.NoError(t, err)
		assert.Equal(t, []string{"docs:Search index"}, s.Indexes)
	})

	t.Run("numbered indexes take precedence", func(t *testing.T) {
		s, err := LoadSettings(NewEnv(mapEnv(map[string]string{
			"LLAMA_CLOUD_API_KEY": "K1",
			"ORG_ID":              "O1",
			"PROJECT_NAME":        "P1",
			"TRANSPORT":           "sse",
			"PORT":                "9000",
			"INDEX_NAME":          "legacy",
			"INDEX_DESCRIPTION":   "Legacy index",
			"INDEX_1":             "docs:Search my docs",
			"INDEX_2":             "faq:FAQ:K2:O2:P2",
			"EXTRACT_AGENT_1":     "invoices:Extract invoices",
		}), afero.NewMemMapFs()))
		require.NoError(t, err)
		assert.Equal(t, []string{"docs:Search my docs", "faq:FAQ:K2:O2:P2"}, s.Indexes)
		assert.Equal(t, []string{"invoices:Extract invoices"}, s.ExtractAgents)
		assert.Equal(t, []string{
			"--index", "docs:Search my docs",
			"--index", "faq:FAQ:K2:O2:P2",
			"--extract-agent", "invoices:Extract invoices",
			"--project-name", "P1",
			"--org-id", "O1",
			"--transport", "sse",
			"--port", "9000",
			"--api-key", "K1",
		}, s.Args())
	})
}

func TestPrintSummary(t *testing.T) {
	s := &Settings{
		APIKey:         "secret-key",
		OrganizationID: "O1",
		ProjectName:    "P1",
		Transport:      "streamable-http",
		Port:           "8000",
		Indexes:        []string{"docs:Search my docs", "faq:FAQ:K2:O2:P2"},
		ExtractAgents:  []string{"invoices:Extract invoices"},
	}

	var buf bytes.Buffer
	s.PrintSummary(&buf)
	out := buf.String()

	assert.Contains(t, out, "Starting LlamaCloud MCP Server on port 8000...")
	assert.Contains(t, out, "Transport: streamable-http")
	assert.Contains(t, out, "Indexes: docs, faq")
	assert.Contains(t, out, "Extract agents: invoices")
	assert.Contains(t, out, "Organization ID: O1")
	assert.Contains(t, out, "Project: P1")
	assert.NotContains(t, out, "secret-key")
	assert.NotContains(t, out, "K2")
}
