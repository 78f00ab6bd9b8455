// Package shquote quotes strings for safe interpolation into a remote
// shell command line, generalising the single-quote escaping the teacher
// already used in internal/ssh.Connection.WriteFile/AppendFile.
package shquote

import "strings"

// Single wraps s in single quotes, escaping any embedded single quote as
// '"'"'  — the standard POSIX-shell trick (close quote, escaped quote,
// reopen quote).
func Single(s string) string {
	escaped := strings.ReplaceAll(s, "'", `'"'"'`)
	return "'" + escaped + "'"
}

// Join quotes every argument and joins them with spaces, for building a
// full command line from caller-controlled tokens.
func Join(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = Single(a)
	}
	return strings.Join(quoted, " ")
}
