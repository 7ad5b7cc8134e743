package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/imamik/pvebootstrap/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 15 * time.Second
	defaultMaxRetries  = 3
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// SSHConfig holds SSH transport configuration.
type SSHConfig struct {
	Host string
	Port int
	User string

	// PrivateKey is the PEM-encoded private key for key authentication.
	// If empty, Password must be set.
	PrivateKey []byte

	// Password enables password authentication when no private key is given.
	Password string

	// DialTimeout is the timeout for establishing the TCP connection.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// MaxRetries is the maximum number of connection retry attempts.
	// If zero, defaultMaxRetries is used.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts.
	// If zero, defaultRetryDelay is used.
	RetryDelay time.Duration

	// HostKeyCallback handles host key verification.
	// If nil, ssh.InsecureIgnoreHostKey() is used.
	HostKeyCallback ssh.HostKeyCallback
}

// SSH executes commands on a remote Proxmox node over an authenticated
// SSH connection. The connection is established once with Connect and
// reused for every command; each Run opens a fresh session on it.
type SSH struct {
	config *SSHConfig
	auth   []ssh.AuthMethod
	client *ssh.Client
}

// NewSSH validates the configuration and prepares the authentication
// methods. It does not dial; call Connect before Run.
func NewSSH(cfg *SSHConfig) (*SSH, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 && cfg.Password == "" {
		return nil, fmt.Errorf("config needs a private key or a password")
	}

	// Copy config to avoid mutating caller's struct
	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.MaxRetries == 0 {
		configCopy.MaxRetries = defaultMaxRetries
	}
	if configCopy.RetryDelay == 0 {
		configCopy.RetryDelay = defaultRetryDelay
	}
	if configCopy.HostKeyCallback == nil {
		configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Matches the operator-driven bootstrap workflow
	}

	var auth []ssh.AuthMethod
	if len(configCopy.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if configCopy.Password != "" {
		auth = append(auth, ssh.Password(configCopy.Password))
	}

	return &SSH{
		config: &configCopy,
		auth:   auth,
	}, nil
}

// Connect establishes the SSH connection with retry logic.
func (s *SSH) Connect(ctx context.Context) error {
	config := &ssh.ClientConfig{
		User:            s.config.User,
		Auth:            s.auth,
		HostKeyCallback: s.config.HostKeyCallback,
		Timeout:         s.config.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	var client *ssh.Client

	err := retry.WithExponentialBackoff(ctx, func() error {
		var dialErr error
		client, dialErr = ssh.Dial("tcp", addr, config)
		return dialErr
	},
		retry.WithMaxRetries(s.config.MaxRetries),
		retry.WithInitialDelay(s.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
	)
	if err != nil {
		return fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}

	s.client = client
	return nil
}

// Run executes a command on the established connection.
// Non-zero remote exit codes are returned in the Result, not as errors.
func (s *SSH) Run(ctx context.Context, command string) (Result, error) {
	if s.client == nil {
		return Result{}, fmt.Errorf("ssh connection not established")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	session, err := s.client.NewSession()
	if err != nil {
		return Result{}, fmt.Errorf("failed to create SSH session on %s: %w", s.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.CombinedOutput(command)
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return Result{ExitCode: exitErr.ExitStatus(), Output: string(output)}, nil
		}
		// Connection-level failure (including missing exit status): the
		// output cannot be trusted.
		return Result{}, fmt.Errorf("command failed on %s: %w", s.config.Host, err)
	}

	return Result{ExitCode: 0, Output: string(output)}, nil
}

// Close releases the SSH connection. Safe to call when never connected.
func (s *SSH) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
