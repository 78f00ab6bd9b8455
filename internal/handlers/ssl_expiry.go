package handlers

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/opsbridge/wpctl/internal/sshexec"
)

// SSLExpiry connects to domain:443, reads the peer certificate, and
// returns its notAfter timestamp plus the number of days remaining,
// computed in UTC. The connection argument is unused: this probe runs
// locally against the public internet, mirroring the original
// ssl_expiry Fabric task.
func SSLExpiry(ctx context.Context, _ sshexec.Connection, kwargs map[string]any) (map[string]any, error) {
	domain := stringArg(kwargs, "domain", "")
	if domain == "" {
		return nil, fmt.Errorf("ssl_expiry: domain is required")
	}

	notAfter, err := fetchCertNotAfter(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("ssl_expiry: %w", err)
	}

	daysLeft := int(time.Until(notAfter).Hours() / 24)
	return map[string]any{
		"domain":    domain,
		"not_after": notAfter.UTC().Format(time.RFC3339),
		"days_left": daysLeft,
	}, nil
}

func fetchCertNotAfter(ctx context.Context, domain string) (time.Time, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(domain, "443"), &tls.Config{ServerName: domain})
	if err != nil {
		return time.Time{}, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return time.Time{}, fmt.Errorf("no peer certificate presented")
	}
	return certs[0].NotAfter, nil
}
