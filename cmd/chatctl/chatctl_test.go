package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RETORTS_FILE_PATH", filepath.Join(dir, "retorts.json"))
	t.Setenv("UNKNOWNS_FILE_PATH", filepath.Join(dir, "unknowns.json"))
	t.Setenv("ADMINS_FILE_PATH", filepath.Join(dir, "admins.json"))
	t.Setenv("LOG_FILE_PATH", filepath.Join(dir, "log.jsonl"))
	t.Setenv("LLM_PROVIDER", "")
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	readOnly, noLLM, topUnknowns = false, false, 0
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--env-file", "testdata-missing.env"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRetortsCommands(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "retorts", "add", "ping", "pong")
	require.NoError(t, err)
	require.Equal(t, "1) ping: pong\n", out)

	_, err = run(t, "", "retorts", "add", "ping", "pong")
	require.ErrorContains(t, err, "already exists")

	out, err = run(t, "", "retorts", "count")
	require.NoError(t, err)
	require.Equal(t, "1\n", out)

	out, err = run(t, "", "retorts", "remove", "PING")
	require.NoError(t, err)
	require.Contains(t, out, "removed")

	_, err = run(t, "", "retorts", "remove", "ping")
	require.ErrorContains(t, err, "doesn't exist")
}

func TestReadOnlyFlag(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "", "--read-only", "retorts", "add", "a", "b")
	require.NoError(t, err)
	out, err := run(t, "", "retorts", "count")
	require.NoError(t, err)
	require.Equal(t, "0\n", out)
}

func TestConsoleConversation(t *testing.T) {
	setupEnv(t)
	script := strings.Join([]string{
		"hi",
		"!dmb addretort;ping;pong",
		"ping",
		"what is this",
		"exit",
		"never read",
	}, "\n")
	out, err := run(t, script, "console", "--no-llm")
	require.NoError(t, err)
	require.Contains(t, out, "DMB: Hello You..")
	require.Contains(t, out, "DMB: Retort 'ping' added.")
	require.Contains(t, out, "DMB: pong")
	require.Contains(t, out, "DMB: I would like to know, how to answer that..")

	out, err = run(t, "", "unknowns", "list")
	require.NoError(t, err)
	require.Equal(t, "1). what is this - 1 times.\n", out)

	out, err = run(t, "", "report")
	require.NoError(t, err)
	require.Contains(t, out, "Turns: 4")
}

func TestAdminsCommands(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "", "admins", "add", "42", "alice")
	require.NoError(t, err)
	_, err = run(t, "", "admins", "add", "7")
	require.NoError(t, err)

	out, err := run(t, "", "admins", "list")
	require.NoError(t, err)
	require.Equal(t, "7\n42 @alice\n", out)

	_, err = run(t, "", "admins", "remove", "7")
	require.NoError(t, err)
	_, err = run(t, "", "admins", "add", "nope")
	require.Error(t, err)
}
