// Package loader builds and runs the clickhouse-client invocation for one
// file. The client reads the file on stdin, writes nothing of interest to
// stdout, and reports problems on stderr; exit code zero means the insert
// committed.
package loader

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bgxgame/ck-loader/internal/config"
)

// DefaultBin is the loader binary resolved on PATH unless overridden.
const DefaultBin = "clickhouse-client"

// maxStderrBytes caps how much loader stderr is retained per job.
const maxStderrBytes = 64 * 1024

// Args returns the clickhouse-client argument list for cfg, without the
// binary itself or any nice prefix.
func Args(cfg *config.Config) []string {
	return []string{
		"--password", cfg.Password,
		"--input_format_parallel_parsing", "1",
		"--max_insert_threads", strconv.Itoa(cfg.Threads),
		"-q", Query(cfg.Table),
	}
}

// Query returns the INSERT statement sent to the server.
func Query(table string) string {
	return fmt.Sprintf("INSERT INTO %s FORMAT ORC", table)
}

// CommandLine renders the full invocation for display, with the password
// masked. Used by the plan subcommand.
func CommandLine(cfg *config.Config) string {
	name, args := invocation(cfg)
	display := make([]string, 0, len(args)+1)
	display = append(display, name)
	for i := 0; i < len(args); i++ {
		if args[i] == "--password" && i+1 < len(args) {
			display = append(display, "--password", "****")
			i++
			continue
		}
		display = append(display, args[i])
	}
	return strings.Join(display, " ")
}

// Preflight verifies the loader binary is resolvable before any job starts,
// so a missing binary fails the run once instead of failing every job.
func Preflight(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.LoaderBin); err != nil {
		return fmt.Errorf("loader binary: %w", err)
	}
	return nil
}

func invocation(cfg *config.Config) (string, []string) {
	args := Args(cfg)
	if cfg.Nice > 0 {
		return "nice", append([]string{"-n", strconv.Itoa(cfg.Nice), cfg.LoaderBin}, args...)
	}
	return cfg.LoaderBin, args
}

// Child is a started loader process with its stderr captured.
type Child struct {
	cmd    *exec.Cmd
	stderr *capWriter
}

// Start launches the loader with stdin connected to f. Stdout is discarded.
// The caller owns f for the lifetime of the child. The child leads its own
// process group so a timeout kill reaches any helper processes it forked,
// and WaitDelay bounds how long Wait holds onto the stderr pipe should one
// of them escape the group.
func Start(f *os.File, cfg *config.Config) (*Child, error) {
	name, args := invocation(cfg)
	cmd := exec.Command(name, args...)
	cw := &capWriter{max: maxStderrBytes}
	cmd.Stdin = f
	cmd.Stdout = nil
	cmd.Stderr = cw
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.WaitDelay = 5 * time.Second
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &Child{cmd: cmd, stderr: cw}, nil
}

// Wait blocks until the child exits and returns its wait error, if any.
func (c *Child) Wait() error {
	return c.cmd.Wait()
}

// Kill force-terminates the child's whole process group, so loader helpers
// sharing the stderr pipe die with it. Best effort; the child must still be
// waited on afterwards to be reaped.
func (c *Child) Kill() error {
	if err := syscall.Kill(-c.cmd.Process.Pid, syscall.SIGKILL); err != nil {
		return c.cmd.Process.Kill()
	}
	return nil
}

// Stderr returns the captured diagnostic output so far.
func (c *Child) Stderr() []byte {
	return c.stderr.Bytes()
}

// capWriter retains at most max bytes and silently drops the rest, so a
// chatty loader cannot grow memory without bound.
type capWriter struct {
	buf []byte
	max int
}

func (w *capWriter) Write(p []byte) (int, error) {
	if room := w.max - len(w.buf); room > 0 {
		if room > len(p) {
			room = len(p)
		}
		w.buf = append(w.buf, p[:room]...)
	}
	return len(p), nil
}

func (w *capWriter) Bytes() []byte {
	return w.buf
}
