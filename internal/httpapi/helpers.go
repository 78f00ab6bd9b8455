package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/opsbridge/wpctl/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

// siteRequest is the JSON shape accepted wherever a request may either
// reference an existing session (site_id) or supply credentials inline.
type siteRequest struct {
	SiteID string `json:"site_id"`

	Host         string `json:"host"`
	User         string `json:"user"`
	Port         int    `json:"port"`
	KeyPath      string `json:"key_path"`
	PrivateKey   string `json:"private_key"`
	Password     string `json:"password"`
	SudoPassword string `json:"sudo_password"`

	InstallDir string `json:"install_dir"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`

	ReportEmail string         `json:"report_email"`
	Kwargs      map[string]any `json:"kwargs"`
}

func (req siteRequest) site() domain.SiteRecord {
	return domain.SiteRecord{
		Host:          req.Host,
		User:          req.User,
		Port:          req.Port,
		KeyPath:       req.KeyPath,
		PrivateKeyPEM: req.PrivateKey,
		Password:      req.Password,
		SudoPassword:  req.SudoPassword,
		InstallDir:    req.InstallDir,
		DBName:        req.DBName,
		DBUser:        req.DBUser,
		DBPassword:    req.DBPassword,
	}
}

// resolveSite resolves a siteRequest into a concrete SiteRecord, either
// by looking up an existing verified session (site_id) or validating
// the inline credentials the caller supplied.
func (s *Server) resolveSite(req siteRequest) (domain.SiteRecord, error) {
	if req.SiteID != "" {
		sess, ok := s.Sessions.Get(req.SiteID)
		if !ok {
			return domain.SiteRecord{}, errUnknownSession
		}
		return sess.Site, nil
	}
	site := req.site()
	if err := site.Validate(); err != nil {
		return domain.SiteRecord{}, err
	}
	return site, nil
}

var errUnknownSession = &apiError{status: http.StatusNotFound, msg: "unknown or expired site_id"}

type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string { return e.msg }

// siteToKwargs shapes a SiteRecord the way worker.SiteFromKwargs expects
// to decode it back: as the nested "site" sub-map of a job's kwargs.
func siteToKwargs(site domain.SiteRecord) map[string]any {
	return map[string]any{
		"host":          site.Host,
		"user":          site.User,
		"port":          site.Port,
		"key_path":      site.KeyPath,
		"private_key":   site.PrivateKeyPEM,
		"password":      site.Password,
		"sudo_password": site.SudoPassword,
		"install_dir":   site.InstallDir,
		"db_name":       site.DBName,
		"db_user":       site.DBUser,
		"db_password":   site.DBPassword,
	}
}

// baseKwargsForSite builds the kwargs bundle every SSH-backed task
// carries: the nested "site" credentials worker.SiteFromKwargs decodes
// to open the connection, plus the handler-facing flat fields (wp_path,
// db_name/db_user/db_pass) derived from the same site record. Caller-
// supplied kwargs are layered on top and may override the flat fields,
// but never the nested "site" identity.
func baseKwargsForSite(site domain.SiteRecord) map[string]any {
	return map[string]any{
		"site":    siteToKwargs(site),
		"wp_path": site.InstallDir,
		"db_name": site.DBName,
		"db_user": site.DBUser,
		"db_pass": site.DBPassword,
	}
}

// checkResetToken compares the caller-supplied token (either header)
// against the configured token in constant time.
func checkResetToken(r *http.Request, configured string) bool {
	supplied := r.Header.Get("X-Reset-Token")
	if supplied == "" {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			supplied = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(configured)) == 1
}
