// Package reporter sends a structured task-completion summary to an
// operator address, grounded on the original Fabric emailer module's
// send_report_email but carried over gomail.v2 instead of a hand-rolled
// smtplib dial.
package reporter

import (
	"encoding/json"
	"fmt"

	"github.com/opsbridge/wpctl/internal/domain"
	"gopkg.in/gomail.v2"
)

// Config carries the SMTP settings needed to send a report.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	StartTLS bool
}

// Reporter sends task-completion emails. A zero-value Host disables
// sending; Report becomes a no-op so callers needn't guard every call
// site on whether SMTP is configured.
type Reporter struct {
	cfg Config
}

// New builds a Reporter from cfg.
func New(cfg Config) *Reporter {
	return &Reporter{cfg: cfg}
}

// Report sends a structured summary of a completed task to toEmail. A
// blank toEmail or unconfigured SMTP host is a silent no-op, matching
// the original emailer's early return when no recipient was given.
func (r *Reporter) Report(toEmail string, task domain.Task) error {
	if toEmail == "" || r.cfg.Host == "" {
		return nil
	}

	body, err := formatBody(task)
	if err != nil {
		return fmt.Errorf("reporter: format body: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", r.cfg.From)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("wpctl task %s: %s", task.Kind, task.State))
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(r.cfg.Host, r.cfg.Port, r.cfg.User, r.cfg.Pass)
	if !r.cfg.StartTLS {
		d.SSL = true
	}
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("reporter: send: %w", err)
	}
	return nil
}

func formatBody(task domain.Task) (string, error) {
	view := task.View()
	payload, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", err
	}

	lines := []string{
		fmt.Sprintf("Task %s (%s)", task.ID, task.Kind),
		"",
		string(payload),
	}

	if adminUser, ok := task.Result["admin_user"]; ok {
		lines = append(lines, "", fmt.Sprintf("Admin User: %v", adminUser))
	}
	if dbUser, ok := task.Result["db_user"]; ok {
		if dbName, ok := task.Result["db_name"]; ok {
			lines = append(lines, fmt.Sprintf("DB: %v / %v", dbName, dbUser))
		}
	}

	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out, nil
}
