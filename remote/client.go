// Package remote runs commands and moves files on the servers the bot
// manages, over SSH. The merge engine itself never touches the
// network; this package stages database files for it and puts the
// results back.
package remote

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

const dialTimeout = 25 * time.Second

// Credentials identify one SSH endpoint with password auth.
type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
}

func (c Credentials) addr() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(c.Host, fmt.Sprint(port))
}

// Client is one SSH connection. Not safe for concurrent command
// execution; callers run one operation at a time per client.
type Client struct {
	conn *ssh.Client
}

// Dial opens an SSH connection. Host keys are not pinned: operators
// register servers by address, the same trust model the panel's own
// installer uses.
func Dial(creds Credentials) (*Client, error) {
	cfg := &ssh.ClientConfig{
		User: creds.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(creds.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}
	conn, err := ssh.Dial("tcp", creds.addr(), cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", creds.addr(), err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Run executes one command and returns its exit code with captured
// stdout and stderr. A non-zero exit is reported through the code, not
// the error; the error covers transport failures only.
func (c *Client) Run(cmd string) (int, string, string, error) {
	session, err := c.conn.NewSession()
	if err != nil {
		return -1, "", "", err
	}
	defer func() { _ = session.Close() }()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	err = session.Run(cmd)
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitStatus(), stdout.String(), stderr.String(), nil
		}
		return -1, stdout.String(), stderr.String(), err
	}
	return 0, stdout.String(), stderr.String(), nil
}
