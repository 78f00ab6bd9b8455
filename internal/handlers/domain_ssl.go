package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opsbridge/wpctl/internal/sshexec"
)

// rdapDateFormat is "YYYY-MM-DD HH:MM:SS" UTC, matching the original
// domain_ssl_checker module's _fmt helper.
const rdapDateFormat = "2006-01-02 15:04:05"

// DomainSSLCollect combines a domain-expiry RDAP lookup with an SSL
// certificate expiry probe into one report. Either probe's failure is
// captured in its own sub-report rather than failing the task; top-level
// ok is the conjunction, per spec §4.4.
func DomainSSLCollect(ctx context.Context, conn sshexec.Connection, kwargs map[string]any) (map[string]any, error) {
	domain := stringArg(kwargs, "domain", "")
	if domain == "" {
		return nil, fmt.Errorf("domain_ssl_collect: domain is required")
	}

	whois := probeDomainExpiry(ctx, domain)
	ssl := probeSSLExpiry(domain)

	whoisOK, _ := whois["ok"].(bool)
	sslOK, _ := ssl["ok"].(bool)

	return map[string]any{
		"domain":     domain,
		"whois":      whois,
		"ssl":        ssl,
		"ok":         whoisOK && sslOK,
		"checked_at": time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// probeDomainExpiry queries rdap.org for domain's expiry, parsing the
// first event whose action is one of expiration/expires/expiry.
func probeDomainExpiry(ctx context.Context, domain string) map[string]any {
	url := fmt.Sprintf("https://rdap.org/domain/%s", domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return map[string]any{"ok": false, "error": err.Error()}
	}
	req.Header.Set("User-Agent", "wpctl/1.0")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return map[string]any{"ok": false, "error": fmt.Sprintf("rdap request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return map[string]any{"ok": false, "error": fmt.Sprintf("rdap read failed: %v", err)}
	}

	var payload struct {
		Events []struct {
			Action string `json:"eventAction"`
			Date   string `json:"eventDate"`
		} `json:"events"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return map[string]any{"ok": false, "error": fmt.Sprintf("rdap parse failed: %v", err)}
	}

	for _, ev := range payload.Events {
		switch ev.Action {
		case "expiration", "expires", "expiry":
			parsed, err := time.Parse(time.RFC3339, ev.Date)
			if err != nil {
				continue
			}
			return map[string]any{"ok": true, "expires_at": parsed.UTC().Format(rdapDateFormat)}
		}
	}

	return map[string]any{"ok": false, "error": "rdap had no expiration event"}
}

func probeSSLExpiry(domain string) map[string]any {
	notAfter, err := fetchCertNotAfter(context.Background(), domain)
	if err != nil {
		return map[string]any{"ok": false, "error": err.Error()}
	}
	daysLeft := int(time.Until(notAfter).Hours() / 24)
	return map[string]any{
		"ok":        true,
		"not_after": notAfter.UTC().Format(time.RFC3339),
		"days_left": daysLeft,
	}
}
