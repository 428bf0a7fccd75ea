package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_CountOnly(t *testing.T) {
	cmd := NewStatusCmd(&fakeListClient{notifications: listFixture()})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--count"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "2\n", out.String())
}

func TestStatusCmd_Badge(t *testing.T) {
	cmd := NewStatusCmd(&fakeListClient{notifications: listFixture()})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--count=false"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "2")
}

func TestStatusCmd_FetchError(t *testing.T) {
	cmd := NewStatusCmd(&fakeListClient{err: errors.New("down")})
	cmd.SetArgs([]string{"--count"})
	assert.Error(t, cmd.Execute())
}

func TestStatusCmd_NilClientPanics(t *testing.T) {
	assert.Panics(t, func() { NewStatusCmd(nil) })
}
