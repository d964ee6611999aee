package reporter

import (
	"net"
	"strconv"
	"strings"

	"github.com/observiq/udpwatch/internal/config"
)

// Endpoint is the address and port the reporter listens on.
type Endpoint struct {
	// Address is an IP address or resolvable hostname.
	Address string
	// Port is the UDP port. Zero asks the kernel for an ephemeral port.
	Port int
}

// ParseEndpoint builds an Endpoint from the positional command line arguments.
// Only the first two arguments are considered.
func ParseEndpoint(args []string) (Endpoint, error) {
	if len(args) < 2 {
		return Endpoint{}, &ArgumentError{Err: ErrMissingArguments}
	}

	address := strings.TrimSpace(args[0])
	if err := config.ValidateHost(address); err != nil {
		return Endpoint{}, &ArgumentError{Arg: "address", Value: args[0], Err: err}
	}

	port, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return Endpoint{}, &ArgumentError{Arg: "port", Value: args[1], Err: err}
	}
	if err := config.ValidateListenPort(port); err != nil {
		return Endpoint{}, &ArgumentError{Arg: "port", Value: args[1], Err: err}
	}

	return Endpoint{Address: address, Port: port}, nil
}

// String returns the endpoint in host:port form.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Address, strconv.Itoa(e.Port))
}
