package mysql

import "testing"

func TestSQLIdentEscapesBacktick(t *testing.T) {
	got := sqlIdent("wp`db")
	want := "`wp``db`"
	if got != want {
		t.Errorf("sqlIdent() = %q, want %q", got, want)
	}
}

func TestSQLStringEscapesQuote(t *testing.T) {
	got := sqlString("o'brien")
	want := "o''brien"
	if got != want {
		t.Errorf("sqlString() = %q, want %q", got, want)
	}
}
