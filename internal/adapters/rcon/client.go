// Package rcon implements the pooled RCON client and the higher-level,
// correlated long-running operations layered on top of it (spec.md §4.6).
package rcon

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// rconInterface is the remote-call interface name the embedded script
// registers under.
const rconInterface = "botbridge"

// Settings configures the TCP endpoint and credential for the client.
type Settings struct {
	Host     string
	Port     int
	Password string
}

func (s Settings) address() string {
	host := s.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("%s:%d", host, s.Port)
}

// Client is the pooled TCP client speaking the game's RCON "quirks" variant
// (every command body must end in a trailing newline).
type Client struct {
	pool   *pool
	silent bool
	log    *logging.Logger
}

// NewClient builds a Client against settings, dialing real connections
// lazily as the pool is exercised.
func NewClient(settings Settings, silent bool, log *logging.Logger) *Client {
	return newClientWithDialer(dialGorcon(settings.address(), settings.Password), silent, log)
}

// newClientWithDialer builds a Client over an arbitrary dialer, letting
// tests substitute a fake transport instead of a real TCP socket.
func newClientWithDialer(dial dialer, silent bool, log *logging.Logger) *Client {
	return &Client{
		pool:   newPool(dial, maxPoolSize),
		silent: silent,
		log:    log,
	}
}

// Send issues one RCON command, returning its reply split on newlines with
// the trailing blank entry dropped. A reply with no body returns nil.
func (c *Client) Send(ctx context.Context, command string) ([]string, error) {
	if !c.silent {
		c.log.With(nil).Debugf("rcon <- %s", command)
	}
	conn, err := c.pool.acquire(ctx)
	if err != nil {
		return nil, shared.NewRconError(err.Error())
	}

	resp, err := conn.Execute(command + "\n")
	if err != nil {
		c.pool.discard(conn)
		return nil, shared.NewRconError(err.Error())
	}
	c.pool.release(conn)

	if !c.silent && resp != "" {
		c.log.With(nil).Debugf("rcon -> %s", resp)
	}
	if resp == "" {
		return nil, nil
	}
	return strings.Split(strings.TrimSuffix(resp, "\n"), "\n"), nil
}

// RemoteCall sends `/silent-command remote.call('botbridge', fn, args…)`,
// args being pre-serialized Lua literals (spec.md §6.3).
func (c *Client) RemoteCall(ctx context.Context, fn string, args ...string) ([]string, error) {
	argString := strings.Join(args, ", ")
	if argString != "" {
		argString = ", " + argString
	}
	command := fmt.Sprintf("/silent-command remote.call('%s', '%s'%s)", rconInterface, fn, argString)
	return c.Send(ctx, command)
}
