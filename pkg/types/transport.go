package types

import "fmt"

// Transport represents the connection mechanism used between an MCP client and this server.
// All transport types supported by llamacloud-mcp are defined in this file with this type.
type Transport string

const (
	TransportStdio          Transport = "stdio"
	TransportSSE            Transport = "sse"
	TransportStreamableHTTP Transport = "streamable-http"
)

// IsNetwork returns true if the transport accepts connections over HTTP and therefore needs a port.
func (t Transport) IsNetwork() bool {
	return t == TransportSSE || t == TransportStreamableHTTP
}

// ValidateTransport validates the input string and returns the corresponding Transport.
// It returns an error if the input is invalid or empty.
func ValidateTransport(input string) (Transport, error) {
	errMsgExt := fmt.Sprintf(
		"(acceptable values: '%s', '%s', '%s')", TransportStdio, TransportSSE, TransportStreamableHTTP,
	)

	switch input {
	case string(TransportStdio):
		return TransportStdio, nil
	case string(TransportSSE):
		return TransportSSE, nil
	case string(TransportStreamableHTTP):
		return TransportStreamableHTTP, nil
	case "":
		return "", fmt.Errorf("transport is required %s", errMsgExt)
	default:
		return "", fmt.Errorf("unsupported transport type: %s %s", input, errMsgExt)
	}
}

// ServerMetadata represents the server metadata response
type ServerMetadata struct {
	Version   string   `json:"version"`
	Transport string   `json:"transport"`
	Tools     []string `json:"tools"`
}
