package handlers

import (
	"context"
	"fmt"

	"github.com/opsbridge/wpctl/internal/sshexec"
)

// fakeConn is an in-memory sshexec.Connection for handler unit tests: it
// matches commands by exact string or, failing that, falls back to a
// default responder so tests only need to stub the commands they care
// about.
type fakeConn struct {
	isRoot    bool
	responses map[string]sshexec.Result
	uploads   map[string]string // remote -> local path actually written
	calls     []string
}

func newFakeConn() *fakeConn {
	return &fakeConn{responses: make(map[string]sshexec.Result), uploads: make(map[string]string)}
}

func (f *fakeConn) stub(cmd string, res sshexec.Result) {
	f.responses[cmd] = res
}

func (f *fakeConn) Run(ctx context.Context, cmd string) (sshexec.Result, error) {
	f.calls = append(f.calls, cmd)
	if res, ok := f.responses[cmd]; ok {
		return res, nil
	}
	return sshexec.Result{ExitCode: 0}, nil
}

func (f *fakeConn) Sudo(ctx context.Context, cmd string) (sshexec.Result, error) {
	return f.Run(ctx, fmt.Sprintf("sudo: %s", cmd))
}

func (f *fakeConn) Upload(ctx context.Context, local, remote string) error {
	f.uploads[remote] = local
	return nil
}

func (f *fakeConn) Download(ctx context.Context, remote, local string) error {
	return nil
}

func (f *fakeConn) IsRoot() bool { return f.isRoot }

func (f *fakeConn) Release() {}

var _ sshexec.Connection = (*fakeConn)(nil)
