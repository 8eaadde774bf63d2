package rcon

import (
	"context"
	"testing"

	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	lastCommand string
	response    string
}

func (c *recordingConn) Execute(command string) (string, error) {
	c.lastCommand = command
	return c.response, nil
}

func (c *recordingConn) Close() error { return nil }

func newTestClient(response string) (*Client, *recordingConn) {
	conn := &recordingConn{response: response}
	client := newClientWithDialer(func() (connection, error) { return conn, nil }, true, logging.NewNop())
	return client, conn
}

func TestSendAppendsTrailingNewline(t *testing.T) {
	client, conn := newTestClient("")
	_, err := client.Send(context.Background(), "/server-save")
	require.NoError(t, err)
	assert.Equal(t, "/server-save\n", conn.lastCommand)
}

func TestRemoteCallBuildsSilentCommand(t *testing.T) {
	client, conn := newTestClient("")
	_, err := client.RemoteCall(context.Background(), "whoami", strToLua("robot"))
	require.NoError(t, err)
	assert.Equal(t, "/silent-command remote.call('botbridge', 'whoami', 'robot')\n", conn.lastCommand)
}

func TestRemoteCallWithNoArgsOmitsComma(t *testing.T) {
	client, conn := newTestClient("")
	_, err := client.RemoteCall(context.Background(), "cheat_all_technologies")
	require.NoError(t, err)
	assert.Equal(t, "/silent-command remote.call('botbridge', 'cheat_all_technologies')\n", conn.lastCommand)
}

func TestSendSplitsMultilineResponse(t *testing.T) {
	client, _ := newTestClient("line1\nline2\n")
	lines, err := client.Send(context.Background(), "/c print(1)")
	require.NoError(t, err)
	assert.Equal(t, []string{"line1", "line2"}, lines)
}

func TestSendReturnsNilForEmptyResponse(t *testing.T) {
	client, _ := newTestClient("")
	lines, err := client.Send(context.Background(), "/c print(1)")
	require.NoError(t, err)
	assert.Nil(t, lines)
}
