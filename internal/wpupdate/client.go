package wpupdate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	statusPath        = "/wp-json/custom/v1/status"
	updatePluginsPath = "/wp-json/custom/v1/update-plugins"
	updateCorePath    = "/wp-json/custom/v1/update-core"

	defaultStatusTimeout = 30 * time.Second
	defaultUpdateTimeout = 600 * time.Second
)

// Auth carries optional HTTP Basic credentials and extra headers for the
// status/update endpoints.
type Auth struct {
	BasicUser string
	BasicPass string
	Headers   map[string]string
}

// Client drives a single WordPress site's custom REST update endpoints.
type Client struct {
	BaseURL string
	Auth    Auth
	HTTP    *http.Client
}

// NewClient builds a Client against baseURL, which may be a bare site
// root or a full "/wp-json" URL — StatusURL decides how to resolve it.
func NewClient(baseURL string, auth Auth) *Client {
	return &Client{BaseURL: baseURL, Auth: auth, HTTP: &http.Client{}}
}

func (c *Client) applyAuth(req *http.Request) {
	if c.Auth.BasicUser != "" {
		req.SetBasicAuth(c.Auth.BasicUser, c.Auth.BasicPass)
	}
	for k, v := range c.Auth.Headers {
		req.Header.Set(k, v)
	}
}

// StatusURL rewrites base into the status route unless base already
// names a specific path beyond the bare "/wp-json" prefix, per the
// outdated-fetch resolution rule: only an empty path or exactly
// "/wp-json" is rewritten, anything else is left intact.
func StatusURL(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if u.Path == "" || u.Path == "/wp-json" {
		u.Path = statusPath
		return u.String()
	}
	return base
}

// SchemaError marks a status response that came back over the wire fine
// but didn't parse into a recognisable shape: non-JSON body, or JSON that
// doesn't match any known status schema. Per spec, this is not a
// transport failure — the caller should report Result as a succeeded
// task, not fail the task.
type SchemaError struct {
	Result map[string]any
}

func (e *SchemaError) Error() string {
	msg, _ := e.Result["error"].(string)
	return "wpupdate: " + msg
}

func schemaError(reason, contentType string, body []byte) *SchemaError {
	preview := body
	if len(preview) > 200 {
		preview = preview[:200]
	}
	return &SchemaError{Result: map[string]any{
		"ok":           false,
		"error":        reason,
		"body_preview": string(preview),
		"content_type": contentType,
	}}
}

// FetchStatus reads the status endpoint and coerces the body into a
// StatusView. A non-JSON or unrecognised body is reported as a
// *SchemaError, not a transport error.
func (c *Client) FetchStatus(ctx context.Context) (StatusView, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultStatusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, StatusURL(c.BaseURL), nil)
	if err != nil {
		return StatusView{}, fmt.Errorf("wpupdate: build status request: %w", err)
	}
	c.applyAuth(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return StatusView{}, fmt.Errorf("wpupdate: status request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return StatusView{}, fmt.Errorf("wpupdate: read status body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	parsed, ok := parseJSONish(contentType, body)
	if !ok {
		return StatusView{}, schemaError(fmt.Sprintf("non-JSON status body (content-type=%q)", contentType), contentType, body)
	}

	view, ok := Coerce(parsed)
	if !ok {
		return StatusView{}, schemaError("unrecognised status shape", contentType, body)
	}
	return view, nil
}

// parseJSONish refuses bodies whose content-type is not JSON-like and
// whose body does not start with '{' or '[', accepting a UTF-8 BOM
// prefix either way.
func parseJSONish(contentType string, body []byte) (any, bool) {
	trimmed := bytes.TrimPrefix(body, []byte{0xEF, 0xBB, 0xBF})
	trimmed = bytes.TrimSpace(trimmed)

	jsonLikeType := strings.Contains(contentType, "json")
	jsonLikeBody := len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
	if !jsonLikeType && !jsonLikeBody {
		return nil, false
	}

	var parsed any
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// UpdateMode is "single" when exactly one plugin is requested, else
// "bulk".
type UpdateMode string

const (
	ModeSingle UpdateMode = "single"
	ModeBulk   UpdateMode = "bulk"
)

// ModeFor derives the mode field for a batch of plugin_file tokens.
func ModeFor(pluginFiles []string) UpdateMode {
	if len(pluginFiles) == 1 {
		return ModeSingle
	}
	return ModeBulk
}

// UpdateEncoding selects the wire encoding for an update-plugins POST.
type UpdateEncoding int

const (
	EncodingForm UpdateEncoding = iota
	EncodingJSON
)

// UpdatePlugins posts a plugin-update batch using the given encoding.
// The response body is returned fully read so callers can inspect it
// even on non-2xx status codes.
func (c *Client) UpdatePlugins(ctx context.Context, pluginFiles []string, encoding UpdateEncoding) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultUpdateTimeout)
	defer cancel()

	mode := ModeFor(pluginFiles)
	target := joinURL(c.BaseURL, updatePluginsPath)

	var req *http.Request
	var err error

	switch encoding {
	case EncodingForm:
		form := url.Values{}
		form.Set("plugins", strings.Join(pluginFiles, ","))
		form.Set("mode", string(mode))
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	case EncodingJSON:
		payload, merr := json.Marshal(map[string]any{"plugins": pluginFiles, "mode": mode})
		if merr != nil {
			return nil, nil, fmt.Errorf("wpupdate: marshal update-plugins payload: %w", merr)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("wpupdate: build update-plugins request: %w", err)
	}
	c.applyAuth(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("wpupdate: update-plugins request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("wpupdate: read update-plugins response: %w", err)
	}
	return resp, body, nil
}

// UpdateCore posts to the update-core endpoint and returns the response
// verbatim; the body may not be JSON.
func (c *Client) UpdateCore(ctx context.Context) (statusCode int, responseBody string, err error) {
	ctx, cancel := context.WithTimeout(ctx, defaultUpdateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(c.BaseURL, updateCorePath), nil)
	if err != nil {
		return 0, "", fmt.Errorf("wpupdate: build update-core request: %w", err)
	}
	c.applyAuth(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("wpupdate: update-core request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("wpupdate: read update-core response: %w", err)
	}
	return resp.StatusCode, string(body), nil
}

// joinURL replaces base's path with path, keeping scheme and host; the
// update endpoints are always rooted at the site regardless of any
// "/wp-json" suffix the caller's base URL carries.
func joinURL(base, path string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + path
	}
	u.Path = path
	u.RawQuery = ""
	return u.String()
}
