package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/cmd/forge/commands"
	"go.trai.ch/forge/internal/build"
)

type mockApp struct {
	serveFunc func(ctx context.Context) error
}

func (m *mockApp) ServeNode(ctx context.Context) error {
	if m.serveFunc != nil {
		return m.serveFunc(ctx)
	}
	return nil
}

func TestCommands_Node(t *testing.T) {
	t.Run("invokes the node server", func(t *testing.T) {
		called := false
		mock := &mockApp{
			serveFunc: func(_ context.Context) error {
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"node"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("returns error on serve failure", func(t *testing.T) {
		mock := &mockApp{
			serveFunc: func(_ context.Context) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"node"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})
	buf := new(bytes.Buffer)
	cli.SetArgs([]string{"version"})
	cli.SetOutput(buf, buf)

	err := cli.Execute(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "forge version "+build.Version)
}

func TestCommands_UnknownCommand(t *testing.T) {
	cli := commands.New(&mockApp{})
	cli.SetArgs([]string{"frobnicate"})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

	err := cli.Execute(context.Background())
	assert.Error(t, err)
}
