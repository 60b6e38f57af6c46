package listener

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 5000, "0.0.0.0:5000"},
		{"127.0.0.1", 0, "127.0.0.1:0"},
		{"::1", 8080, "[::1]:8080"},
	}
	for _, test := range tests {
		if got := Address(test.host, test.port); got != test.want {
			t.Errorf("Address(%q, %d): expected %s, got %s", test.host, test.port, test.want, got)
		}
	}
}

func TestURL(t *testing.T) {
	addr := &net.TCPAddr{IP: net.IPv4zero, Port: 5000}
	if got := URL(addr); got != "http://0.0.0.0:5000/" {
		t.Errorf("expected http://0.0.0.0:5000/, got %s", got)
	}
}

func TestListenIPv4Wildcard(t *testing.T) {
	ln, err := Listen(context.Background(), "0.0.0.0:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	if !strings.HasPrefix(ln.Addr().String(), "0.0.0.0:") {
		t.Errorf("expected an IPv4 wildcard address, got %s", ln.Addr())
	}
}

func TestListenBusyPort(t *testing.T) {
	ln, err := Listen(context.Background(), "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	// SO_REUSEADDR doesn't allow two live listeners on one port.
	if _, err := Listen(context.Background(), ln.Addr().String()); err == nil {
		t.Error("expected the second bind to fail")
	}
}

// The server closes its side of an accepted connection first, which
// leaves the socket in TIME_WAIT, then the port is bound again at once.
func TestListenRebindAfterClose(t *testing.T) {
	ln, err := Listen(context.Background(), "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()

	accepted := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			accepted <- err
			return
		}
		accepted <- conn.Close()
	}()

	client, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	if err := <-accepted; err != nil {
		t.Fatal(err)
	}
	_, _ = io.Copy(io.Discard, client)
	_ = client.Close()

	if err := ln.Close(); err != nil {
		t.Fatal(err)
	}

	again, err := Listen(context.Background(), addr)
	if err != nil {
		t.Fatalf("rebinding %s: %v", addr, err)
	}
	_ = again.Close()
}
