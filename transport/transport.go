package transport

import (
	"context"
	"net"
	"strconv"
)

// Server is anything the application runs until shutdown.
type Server interface {
	// Run starts the server and blocks until it stops.
	Run() error
	// Shutdown gracefully stops the server.
	Shutdown(context.Context) error
}

// ValidateAddress reports whether addr is a host:port pair with a port in
// [1, 65535]. The host may be empty, an IP or a hostname.
func ValidateAddress(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return false
	}
	if host != "" && net.ParseIP(host) == nil && !isHostname(host) {
		return false
	}

	p, err := strconv.Atoi(port)
	return err == nil && p >= 1 && p <= 65535
}

func isHostname(host string) bool {
	if len(host) > 253 || host[0] == '-' || host[len(host)-1] == '-' {
		return false
	}
	for _, r := range host {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-') {
			return false
		}
	}
	return true
}
