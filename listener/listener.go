// Package listener opens the TCP socket the server accepts connections on.
package listener

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// Address joins host and port into a dialable address.
func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Listen binds a TCP listener on addr with SO_REUSEADDR enabled, so a
// restarted process can take the port back while old connections are
// still in TIME_WAIT.
//
// An IPv4 host is bound as tcp4, otherwise the wildcard 0.0.0.0 would be
// turned into a dual-stack [::] socket.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	network := "tcp"
	if host, _, err := net.SplitHostPort(addr); err == nil {
		if ip := net.ParseIP(host); ip != nil && ip.To4() != nil {
			network = "tcp4"
		}
	}

	lc := net.ListenConfig{Control: reuseAddr}
	ln, err := lc.Listen(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return ln, nil
}

// URL renders the base URL of a bound address.
func URL(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return fmt.Sprintf("http://%s/", Address(tcp.IP.String(), tcp.Port))
	}
	return fmt.Sprintf("http://%s/", addr.String())
}
