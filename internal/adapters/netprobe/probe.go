// Package netprobe implements the connectivity port with a TCP dial check,
// the server-side equivalent of the browser's navigator.onLine signal.
package netprobe

import (
	"context"
	"net"
	"time"
)

// Probe dials Addr and reports reachability. The zero value is not usable;
// construct with New.
type Probe struct {
	addr    string
	timeout time.Duration
	dial    func(ctx context.Context, network, addr string) (net.Conn, error)
}

// New builds a probe against addr (host:port), typically the database host.
func New(addr string, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	d := &net.Dialer{}
	return &Probe{addr: addr, timeout: timeout, dial: d.DialContext}
}

func (p *Probe) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	conn, err := p.dial(ctx, "tcp", p.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
