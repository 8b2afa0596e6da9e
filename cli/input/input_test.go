package input

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

type rw struct {
	io.Reader
	io.Writer
}

func TestTerminalInput(t *testing.T) {
	out := new(bytes.Buffer)
	Terminal = term.NewTerminal(rw{bytes.NewBufferString("first\rsecret\r"), out}, "")
	t.Cleanup(func() { Terminal = nil })

	line, err := ReadLine(out, "Name > ")
	require.NoError(t, err)
	require.Equal(t, "first", line)

	pass, err := PasswordReader(out)("Password > ")
	require.NoError(t, err)
	require.Equal(t, "secret", pass)
	require.Contains(t, out.String(), "Name > ")
	require.NotContains(t, out.String(), "secret")
}
