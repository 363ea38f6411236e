package service

import (
	"context"
	"fmt"
	"net"
	"time"
)

// NetworkPrinter writes raw jobs to a printer's JetDirect port (usually 9100).
type NetworkPrinter struct {
	addr    string
	timeout time.Duration
	dialer  net.Dialer
}

func NewNetworkPrinter(addr string, timeout time.Duration) *NetworkPrinter {
	return &NetworkPrinter{addr: addr, timeout: timeout, dialer: net.Dialer{Timeout: timeout}}
}

func (p *NetworkPrinter) Addr() string {
	return p.addr
}

// Send opens a connection, writes the whole job and closes it. The printer
// starts printing when the connection closes.
func (p *NetworkPrinter) Send(ctx context.Context, job []byte) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return fmt.Errorf("dial printer %s: %w", p.addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := conn.Write(job); err != nil {
		return fmt.Errorf("write print job: %w", err)
	}
	return nil
}

// Ping reports whether the printer accepts connections.
func (p *NetworkPrinter) Ping(ctx context.Context) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return fmt.Errorf("dial printer %s: %w", p.addr, err)
	}
	return conn.Close()
}
