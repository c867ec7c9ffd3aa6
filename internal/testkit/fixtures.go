// Package testkit builds corpora and fake external tools for tests.
//
// Fake tools are POSIX shell scripts, so tests that use them call
// RequireShell first and are skipped where /bin/sh is missing.
package testkit

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// RequireShell skips the test when /bin/sh is unavailable.
func RequireShell(t testing.TB) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

// RequireTool skips the test when name is not on PATH.
func RequireTool(t testing.TB, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteScript writes an executable shell script and returns its absolute path.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	WriteFile(t, path, "#!/bin/sh\n"+body)
	// #nosec G302 -- test fixture must be executable
	if err := os.Chmod(path, 0o700); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("abs %s: %v", path, err)
	}
	return abs
}

// Case describes one feeder-mode unit: its input and expected streams.
// An empty ExpectedStderr still writes an empty .err file unless NoStderr is set.
type Case struct {
	Name           string
	Input          string
	ExpectedStdout string
	ExpectedStderr string
	NoStdout       bool
	NoStderr       bool
}

// WriteCorpus writes "<name>.in", "<name>.out" and "<name>.err" for each case.
func WriteCorpus(t testing.TB, dir string, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		WriteFile(t, filepath.Join(dir, c.Name+".in"), c.Input)
		if !c.NoStdout {
			WriteFile(t, filepath.Join(dir, c.Name+".out"), c.ExpectedStdout)
		}
		if !c.NoStderr {
			WriteFile(t, filepath.Join(dir, c.Name+".err"), c.ExpectedStderr)
		}
	}
}

// EchoProgram writes a subject that copies stdin to stdout.
func EchoProgram(t testing.TB, dir string) string {
	t.Helper()
	return WriteScript(t, dir, "echo.sh", "exec cat\n")
}

// memCheckPrelude parses the memory checker flags the adapter passes and
// leaves the subject command in "$@".
const memCheckPrelude = `log=""
code=1
while [ $# -gt 0 ]; do
  case "$1" in
    --log-file=*) log="${1#--log-file=}"; shift ;;
    --error-exitcode=*) code="${1#--error-exitcode=}"; shift ;;
    -*) shift ;;
    *) break ;;
  esac
done
`

// FakeMemCheck writes a stand-in for valgrind. When leak is true it runs the
// subject, then writes a leak report to the log file and exits with the
// configured error exit code; otherwise it only runs the subject.
func FakeMemCheck(t testing.TB, dir string, leak bool) string {
	t.Helper()
	body := memCheckPrelude + `"$@"
status=$?
`
	name := "memcheck-clean.sh"
	if leak {
		name = "memcheck-leak.sh"
		body += `echo "==1== 16 bytes in 1 blocks are definitely lost" > "$log"
exit "$code"
`
	} else {
		body += `exit "$status"
`
	}
	return WriteScript(t, dir, name, body)
}

// FakeCompiler writes a stand-in for gcc. It copies the source file to the
// "-o" output and marks it executable, so test sources are shell scripts.
// With fail set it prints a diagnostic and exits 1. A non-empty warn is
// printed to stderr on success.
func FakeCompiler(t testing.TB, dir string, fail bool, warn string) string {
	t.Helper()
	body := `out=""
src=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    -*) shift ;;
    *.c) src="$1"; shift ;;
    *) shift ;;
  esac
done
`
	name := "cc-ok.sh"
	if fail {
		name = "cc-fail.sh"
		body += `echo "$src:1:1: error: expected ';' before '}' token" >&2
exit 1
`
	} else {
		if warn != "" {
			name = "cc-warn.sh"
			body += "echo '" + warn + "' >&2\n"
		}
		body += `cp "$src" "$out" && chmod 700 "$out"
`
	}
	return WriteScript(t, dir, name, body)
}
