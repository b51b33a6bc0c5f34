package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/hyperterse/sqlgeneric/core/domain"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
)

// DefaultTimeout bounds a probe when the caller passes no timeout
const DefaultTimeout = 5 * time.Second

// TCP checks reachability by opening and immediately closing a TCP connection
type TCP struct {
	dialer *net.Dialer
}

// NewTCP creates a TCP prober
func NewTCP() *TCP {
	return &TCP{dialer: &net.Dialer{}}
}

// Probe reports whether host:port accepts connections within timeout
func (p *TCP) Probe(ctx context.Context, host string, port int, timeout time.Duration) domain.ProbeResult {
	log := logging.New("probe")
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	address := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := p.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		status := classify(err)
		log.Debugf("Port %d at server '%s' is %s: %v", port, host, status, err)
		return domain.ProbeResult{Status: status, Err: err}
	}
	defer conn.Close()

	log.Debugf("Port %d at server '%s' is open", port, host)
	return domain.ProbeResult{Status: domain.ProbeOpen}
}

func classify(err error) domain.ProbeStatus {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return domain.ProbeTimedOut
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ProbeTimedOut
	}
	return domain.ProbeClosed
}
