package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoMain_WritesRawModuleToStdout(t *testing.T) {
	var stdOut, stdErr bytes.Buffer

	code := doMain([]string{"-seed=1"}, &stdOut, &stdErr)
	require.Equal(t, 0, code)
	require.Equal(t, "", stdErr.String())

	out := stdOut.Bytes()
	require.GreaterOrEqual(t, len(out), 8)
	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, out[:8])
}

func TestDoMain_RejectsUnknownFormat(t *testing.T) {
	var stdOut, stdErr bytes.Buffer

	code := doMain([]string{"-format=bogus"}, &stdOut, &stdErr)
	require.Equal(t, 1, code)
	require.Contains(t, stdErr.String(), "unknown -format")
}

func TestDoMain_JSFormatSucceedsWhenWrapped(t *testing.T) {
	var stdOut, stdErr bytes.Buffer

	code := doMain([]string{"-seed=5", "-format=js", "-wrap-v128-args-via-i64"}, &stdOut, &stdErr)
	require.Equal(t, 0, code)
	require.Contains(t, stdOut.String(), "xxHash32")
}
