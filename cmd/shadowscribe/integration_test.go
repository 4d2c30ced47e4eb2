package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/shadowscribe/internal/diary"
	"github.com/csheth/shadowscribe/internal/markup"
	"github.com/csheth/shadowscribe/internal/tuitest"
)

const testConfig = `store:
  backend: jsonfile
book:
  flip_duration: 200ms
  frame_interval: 40ms
llm:
  provider: none
`

func TestWriteOnFirstPageThenExport(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary and drives it in a PTY")
	}
	t.Parallel()

	binary := buildBinary(t, moduleDir(t))
	env := newDiaryDir(t)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: env.args(binary, "--no-alt-screen", "--markdown-style", "notty"),
		Width:   100,
		Height:  30,
		Steps: []tuitest.Step{
			tuitest.Wait(time.Second),
			tuitest.Press(0, tuitest.KeyRight),
			tuitest.Wait(600 * time.Millisecond),
			tuitest.Type("i"),
			tuitest.Wait(200 * time.Millisecond),
			tuitest.Type("dear diary"),
			tuitest.Press(200*time.Millisecond, tuitest.KeyEsc),
			tuitest.Press(500*time.Millisecond, tuitest.KeyCtrlC),
		},
		Timeout:        10 * time.Second,
		AllowInterrupt: true,
	})
	require.NoError(t, err)

	_, ok := rec.LastFrameContaining("SHADOWSCRIBE")
	assert.True(t, ok, "cover never drawn")
	_, ok = rec.LastFrameContaining("Contents")
	assert.True(t, ok, "book never opened")
	_, ok = rec.LastFrameContaining("dear diary")
	assert.True(t, ok, "written text never drawn")

	out, err := exec.Command(binary, env.args(binary, "export")[1:]...).Output()
	require.NoError(t, err)

	var pages []diary.Page
	require.NoError(t, json.Unmarshal(out, &pages))
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, "dear diary", markup.ToText(pages[0].Content))
}

func TestImportRejectsBadFile(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	t.Parallel()

	binary := buildBinary(t, moduleDir(t))
	env := newDiaryDir(t)

	bad := filepath.Join(env.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"pageNumber":"1","content":"x"}]`), 0o644))

	cmd := exec.Command(binary, env.args(binary, "import", bad)[1:]...)
	output, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected a non-zero exit, got %v", err)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(output), "pages[0].pageNumber")

	_, statErr := os.Stat(filepath.Join(env.dir, "data", "pages.json"))
	assert.True(t, os.IsNotExist(statErr), "a rejected import must not create the store")
}

type diaryDir struct {
	dir    string
	config string
	data   string
}

func newDiaryDir(t *testing.T) diaryDir {
	t.Helper()
	dir := t.TempDir()
	d := diaryDir{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		data:   filepath.Join(dir, "data"),
	}
	require.NoError(t, os.WriteFile(d.config, []byte(testConfig), 0o644))
	return d
}

// args returns binary, the global flags pointing at the temp diary, and
// then extra.
func (d diaryDir) args(binary string, extra ...string) []string {
	args := []string{binary, "--config", d.config, "--data-dir", d.data}
	return append(args, extra...)
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "shadowscribe-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
