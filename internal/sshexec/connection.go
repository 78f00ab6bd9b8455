// Package sshexec is the remote execution engine: it materialises
// credentials, opens a real golang.org/x/crypto/ssh connection with
// sudo-capable config, and exposes run/sudo/upload/download, generalising
// the shape of the teacher's internal/ssh.Connection interface onto a
// library-backed transport instead of shelling out to the ssh binary.
package sshexec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"github.com/opsbridge/wpctl/internal/domain"
	"golang.org/x/crypto/ssh"
)

const (
	connectTimeout = 30 * time.Second
	authTimeout    = 30 * time.Second
)

// Result is the outcome of a single remote command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// OK reports whether the command exited zero.
func (r Result) OK() bool { return r.ExitCode == 0 }

// Connection is a live, single-task-scoped SSH/SFTP session.
type Connection interface {
	Run(ctx context.Context, cmd string) (Result, error)
	Sudo(ctx context.Context, cmd string) (Result, error)
	Upload(ctx context.Context, local, remote string) error
	Download(ctx context.Context, remote, local string) error
	IsRoot() bool
	Release()
}

type connection struct {
	client      *ssh.Client
	sftpClient  *sftp.Client
	sudoPass    string
	isRoot      bool
	credCleanup func()
}

// Acquire opens a connection scoped to a single task invocation per spec
// §4.2. Release must be called on every exit path, including error paths
// handled by the caller; Acquire itself cleans up on its own failure
// paths so callers never leak a materialised credential.
func Acquire(ctx context.Context, site domain.SiteRecord) (Connection, error) {
	cred, cleanup, err := Materialize(site)
	if err != nil {
		return nil, err
	}

	clientCfg := &ssh.ClientConfig{
		User:            site.User,
		Timeout:         connectTimeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		BannerCallback: func(string) error { return nil },
	}

	switch cred.Kind {
	case CredentialKey:
		keyPEM := []byte(site.PrivateKeyPEM)
		if cred.KeyPath != "" && site.PrivateKeyPEM == "" {
			keyPEM, err = os.ReadFile(cred.KeyPath)
			if err != nil {
				cleanup()
				return nil, fmt.Errorf("sshexec: read key: %w", err)
			}
		}
		signer, err := ssh.ParsePrivateKey(keyPEM)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("sshexec: parse private key: %w", err)
		}
		// Disabling agent/known-hosts discovery (deterministic auth, per
		// spec §4.2) is implicit here: we never call ssh.Dial with any
		// agent-forwarding or default-config auth methods, only the
		// explicit signer/password supplied below.
		clientCfg.Auth = []ssh.AuthMethod{ssh.PublicKeys(signer)}
	case CredentialPassword:
		clientCfg.Auth = []ssh.AuthMethod{ssh.Password(cred.Password)}
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout+authTimeout)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", site.Host, site.EffectivePort())
	client, err := dialContext(dialCtx, addr, clientCfg)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("sshexec: dial %s: %w", addr, err)
	}

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		cleanup()
		return nil, fmt.Errorf("sshexec: sftp client: %w", err)
	}

	return &connection{
		client:      client,
		sftpClient:  sftpClient,
		sudoPass:    site.EffectiveSudoPassword(),
		isRoot:      site.User == "root",
		credCleanup: cleanup,
	}, nil
}

// dialContext dials the SSH connection honoring the caller's context
// deadline, since golang.org/x/crypto/ssh.Dial has no native context
// support.
func dialContext(ctx context.Context, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	type result struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, cfg)
		ch <- result{c, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.client, r.err
	}
}

func (c *connection) Run(ctx context.Context, cmd string) (Result, error) {
	return c.exec(ctx, cmd)
}

func (c *connection) Sudo(ctx context.Context, cmd string) (Result, error) {
	if c.isRoot {
		return c.exec(ctx, cmd)
	}
	sudoCmd := fmt.Sprintf("sudo -S -p '' %s", cmd)
	if c.sudoPass == "" {
		return Result{}, fmt.Errorf("sshexec: sudo requested but no sudo password is configured")
	}
	// Password is piped through stdin, never interpolated into the
	// visible command string — only the literal "sudo -S" flag appears
	// in any logged command.
	return c.execWithStdin(ctx, sudoCmd, c.sudoPass+"\n")
}

func (c *connection) exec(ctx context.Context, cmd string) (Result, error) {
	return c.execWithStdin(ctx, cmd, "")
}

func (c *connection) execWithStdin(ctx context.Context, cmd, stdin string) (Result, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return Result{}, fmt.Errorf("sshexec: new session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if stdin != "" {
		session.Stdin = strings.NewReader(stdin)
	}

	type outcome struct {
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		done <- outcome{session.Run(cmd)}
	}()

	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return Result{}, ctx.Err()
	case o := <-done:
		exitCode := 0
		if o.err != nil {
			if exitErr, ok := o.err.(*ssh.ExitError); ok {
				exitCode = exitErr.ExitStatus()
			} else {
				return Result{Stdout: stdout.String(), Stderr: stderr.String()}, fmt.Errorf("sshexec: run: %w", o.err)
			}
		}
		return Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitCode}, nil
	}
}

func (c *connection) Upload(ctx context.Context, local, remote string) error {
	localFile, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("sshexec: open local file: %w", err)
	}
	defer localFile.Close()

	remoteFile, err := c.sftpClient.Create(remote)
	if err != nil {
		return fmt.Errorf("sshexec: create remote file: %w", err)
	}
	defer remoteFile.Close()

	if _, err := remoteFile.ReadFrom(localFile); err != nil {
		return fmt.Errorf("sshexec: upload: %w", err)
	}
	return nil
}

func (c *connection) Download(ctx context.Context, remote, local string) error {
	remoteFile, err := c.sftpClient.Open(remote)
	if err != nil {
		return fmt.Errorf("sshexec: open remote file: %w", err)
	}
	defer remoteFile.Close()

	localFile, err := os.Create(local)
	if err != nil {
		return fmt.Errorf("sshexec: create local file: %w", err)
	}
	defer localFile.Close()

	if _, err := remoteFile.WriteTo(localFile); err != nil {
		return fmt.Errorf("sshexec: download: %w", err)
	}
	return nil
}

func (c *connection) IsRoot() bool { return c.isRoot }

// Release closes the SFTP and SSH clients and invokes the credential
// cleanup, guaranteed to run on every exit path, including panics in the
// caller (the caller is expected to `defer conn.Release()` immediately
// after Acquire succeeds).
func (c *connection) Release() {
	if c.sftpClient != nil {
		c.sftpClient.Close()
	}
	if c.client != nil {
		c.client.Close()
	}
	if c.credCleanup != nil {
		c.credCleanup()
	}
}
