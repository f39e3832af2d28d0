// Package remote runs the inventory engine against another Linux host over
// SSH: it supplies the same command-runner and file-reader collaborators the
// local engine uses, backed by SSH sessions.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// Config represents SSH connection configuration.
type Config struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	KeyPath        string        `yaml:"key_path"`
	Password       string        `yaml:"password,omitempty"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Client implements the engine's CommandRunner and FileReader interfaces
// over a single SSH connection, one session per command.
type Client struct {
	config *Config
	client *ssh.Client
}

// NewClient creates an SSH client with defaulted port and timeout.
func NewClient(config *Config) *Client {
	if config.Port == 0 {
		config.Port = 22
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 30 * time.Second
	}
	return &Client{config: config}
}

// Connect establishes the SSH connection.
func (c *Client) Connect(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	var authMethods []ssh.AuthMethod
	if c.config.KeyPath != "" {
		key, err := c.loadPrivateKey(c.config.KeyPath)
		if err != nil {
			return fmt.Errorf("failed to load private key: %w", err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(key))
	}
	if c.config.Password != "" {
		authMethods = append(authMethods, ssh.Password(c.config.Password))
	}
	if len(authMethods) == 0 {
		return fmt.Errorf("no authentication method provided")
	}

	sshConfig := &ssh.ClientConfig{
		User:            c.config.User,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: known_hosts verification
		Timeout:         c.config.ConnectTimeout,
	}

	address := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
	conn, err := c.dialWithContext(ctx, "tcp", address, sshConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	c.client = conn
	return nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Run executes a command on the remote host and returns its stdout and exit
// code.
func (c *Client) Run(ctx context.Context, name string, args ...string) (string, int, error) {
	command := shellQuote(append([]string{name}, args...))
	return c.runShell(ctx, command)
}

// LookPath reports whether the named tool resolves on the remote search path.
func (c *Client) LookPath(name string) bool {
	_, exitCode, err := c.runShell(context.Background(), "command -v "+quoteArg(name))
	return err == nil && exitCode == 0
}

// ReadFile reads a remote pseudo-file. Missing or unreadable paths surface
// as errors, which the engine treats as the source being absent.
func (c *Client) ReadFile(path string) ([]byte, error) {
	out, exitCode, err := c.runShell(context.Background(), "cat "+quoteArg(path))
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		return nil, fmt.Errorf("cat %s: exit code %d", path, exitCode)
	}
	return []byte(out), nil
}

// Glob expands a pattern on the remote host.
func (c *Client) Glob(pattern string) ([]string, error) {
	// The pattern must stay unquoted so the remote shell expands it.
	out, exitCode, err := c.runShell(context.Background(), "ls -d "+pattern+" 2>/dev/null")
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		return nil, nil
	}
	var matches []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			matches = append(matches, line)
		}
	}
	return matches, nil
}

func (c *Client) runShell(ctx context.Context, command string) (string, int, error) {
	if c.client == nil {
		return "", -1, fmt.Errorf("not connected")
	}

	session, err := c.client.NewSession()
	if err != nil {
		return "", -1, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	var stdout bytes.Buffer
	session.Stdout = &stdout

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return "", -1, ctx.Err()
	case err := <-done:
		if err != nil {
			if exitErr, ok := err.(*ssh.ExitError); ok {
				return stdout.String(), exitErr.ExitStatus(), nil
			}
			return "", -1, err
		}
		return stdout.String(), 0, nil
	}
}

func (c *Client) loadPrivateKey(path string) (ssh.Signer, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key: %w", err)
	}
	return signer, nil
}

func (c *Client) dialWithContext(ctx context.Context, network, address string, config *ssh.ClientConfig) (*ssh.Client, error) {
	dialer := net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

// shellQuote joins a command and its arguments into a safely quoted shell
// command line.
func shellQuote(argv []string) string {
	quoted := make([]string, 0, len(argv))
	for _, arg := range argv {
		quoted = append(quoted, quoteArg(arg))
	}
	return strings.Join(quoted, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n'\"\\$&|;<>(){}[]*?~#") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
