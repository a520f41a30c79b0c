package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Transport
		wantErr string
	}{
		{input: "stdio", want: TransportStdio},
		{input: "sse", want: TransportSSE},
		{input: "streamable-http", want: TransportStreamableHTTP},
		{input: "", wantErr: "transport is required"},
		{input: "streamable_http", wantErr: "unsupported transport type: streamable_http"},
		{input: "STDIO", wantErr: "unsupported transport type"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateTransport(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransportIsNetwork(t *testing.T) {
	t.Parallel()

	assert.False(t, TransportStdio.IsNetwork())
	assert.True(t, TransportSSE.IsNetwork())
	assert.True(t, TransportStreamableHTTP.IsNetwork())
}
