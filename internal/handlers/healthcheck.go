package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/opsbridge/wpctl/internal/sshexec"
)

const healthcheckBodyCap = 2000

// HealthCheck issues a local HTTP probe for the requested URL, captures
// the status code and first 2,000 bytes of body, checks for an optional
// keyword, and optionally invokes a local screenshot tool. The
// connection argument is unused: the probe runs from the control plane,
// not the remote host, mirroring the original Fabric task's `c.local`
// call.
func HealthCheck(ctx context.Context, _ sshexec.Connection, kwargs map[string]any) (map[string]any, error) {
	url := stringArg(kwargs, "url", "")
	if url == "" {
		return nil, fmt.Errorf("healthcheck: url is required")
	}
	keyword := stringArg(kwargs, "keyword", "")
	wantScreenshot := boolArg(kwargs, "screenshot", false)

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("healthcheck: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("healthcheck: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, healthcheckBodyCap))
	if err != nil {
		return nil, fmt.Errorf("healthcheck: read body: %w", err)
	}

	keywordPresent := keyword != "" && strings.Contains(string(body), keyword)
	ok := resp.StatusCode == http.StatusOK
	if keyword != "" {
		ok = ok && keywordPresent
	}

	result := map[string]any{
		"url":    url,
		"status": resp.StatusCode,
		"ok":     ok,
	}
	if keyword != "" {
		result["keyword_present"] = keywordPresent
	}

	if wantScreenshot {
		outPath := stringArg(kwargs, "out_path", "/tmp/site.png")
		shot, shotErr := takeScreenshot(ctx, url, outPath)
		if shotErr != nil {
			result["screenshot"] = map[string]any{"ok": false, "error": shotErr.Error()}
		} else {
			result["screenshot"] = shot
		}
	}

	return result, nil
}

// takeScreenshot invokes the first available local screenshot tool:
// wkhtmltoimage, then headless Chrome/Chromium.
func takeScreenshot(ctx context.Context, url, outPath string) (string, error) {
	if path, err := exec.LookPath("wkhtmltoimage"); err == nil {
		cmd := exec.CommandContext(ctx, path, url, outPath)
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("wkhtmltoimage: %w", err)
		}
		return outPath, nil
	}

	for _, bin := range []string{"google-chrome", "chromium", "chromium-browser"} {
		path, err := exec.LookPath(bin)
		if err != nil {
			continue
		}
		cmd := exec.CommandContext(ctx, path, "--headless", "--disable-gpu",
			fmt.Sprintf("--screenshot=%s", outPath), url)
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("%s: %w", bin, err)
		}
		return outPath, nil
	}

	return "", fmt.Errorf("no screenshot tool found (tried wkhtmltoimage, chrome, chromium)")
}
