package restic

import "testing"

func TestMysqlPassFlagEmptyWhenNoPassword(t *testing.T) {
	if got := mysqlPassFlag(""); got != "" {
		t.Errorf("mysqlPassFlag(\"\") = %q, want empty", got)
	}
}

func TestMysqlPassFlagQuotesPassword(t *testing.T) {
	got := mysqlPassFlag("it's a secret")
	want := `-p'it'"'"'s a secret'`
	if got != want {
		t.Errorf("mysqlPassFlag() = %q, want %q", got, want)
	}
}

func TestPgPasswordEnvQuotesPassword(t *testing.T) {
	got := pgPasswordEnv("p@ss'word")
	want := `PGPASSWORD='p@ss'"'"'word' `
	if got != want {
		t.Errorf("pgPasswordEnv() = %q, want %q", got, want)
	}
}

func TestMongoAuthFlagsEmptyWhenMissingEither(t *testing.T) {
	if got := mongoAuthFlags("user", ""); got != "" {
		t.Errorf("mongoAuthFlags() = %q, want empty", got)
	}
	if got := mongoAuthFlags("", "pass"); got != "" {
		t.Errorf("mongoAuthFlags() = %q, want empty", got)
	}
}

func TestMongoAuthFlagsQuotesBoth(t *testing.T) {
	got := mongoAuthFlags("admin", "p'w")
	want := `--username 'admin' --password 'p'"'"'w' --authenticationDatabase admin`
	if got != want {
		t.Errorf("mongoAuthFlags() = %q, want %q", got, want)
	}
}
