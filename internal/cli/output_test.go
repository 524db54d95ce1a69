package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"output": "a < 1 AND b > 2"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)

	// HTML characters stay literal.
	assert.Contains(t, buf.String(), "a < 1 AND b > 2")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeCompile, "criteria: unknown node kind", []string{"x.cue:1:1"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E008", resp.Error.Code)
	assert.Equal(t, "criteria: unknown node kind", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("E005", "path not found: x", "details"))
	assert.Equal(t, "Error [E005]: path not found: x\n", buf.String())

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error("E005", "path not found: x", "details"))
	assert.Contains(t, buf.String(), "Details: details")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}

	formatter.VerboseLog("hidden %d", 1)
	assert.Empty(t, errOut.String())

	formatter.Verbose = true
	formatter.VerboseLog("loaded %d document(s)", 2)
	assert.Equal(t, "loaded 2 document(s)\n", errOut.String())
	assert.Empty(t, out.String(), "diagnostics must not corrupt JSON output")
}

func TestOutputFormatter_GetErrWriterFallback(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Writer: buf}
	assert.Same(t, buf, formatter.GetErrWriter())
}

func TestOutputFormatter_LoggerLevel(t *testing.T) {
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Writer: &bytes.Buffer{}, ErrWriter: errOut}

	formatter.Logger().Debug("quiet")
	formatter.Logger().Warn("loud")
	assert.NotContains(t, errOut.String(), "quiet")
	assert.Contains(t, errOut.String(), "loud")

	errOut.Reset()
	formatter.Verbose = true
	formatter.Logger().Debug("now visible")
	assert.Contains(t, errOut.String(), "now visible")
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.fail(ExitCommandError, ErrCodeDatabase, "open database: boom", nil)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "open database: boom", err.Error())
	assert.Contains(t, buf.String(), "Error [E009]")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))

	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitFailure, "failed"))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestWrapExitError(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapExitError(ExitCommandError, "failed to find scenarios", cause)

	assert.Equal(t, "failed to find scenarios: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)
}
