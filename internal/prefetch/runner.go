// Package prefetch serializes runs of the external content-snapshot
// regeneration command. Bursts of triggers coalesce into the run already
// in flight plus at most one queued rerun, so an editing spree costs two
// regenerations, not one per keystroke.
package prefetch

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/internal/telemetry"
)

// DefaultCommand regenerates the static content snapshot when no
// command is configured.
const DefaultCommand = "npm run fetch-content"

// EnvCommand is the environment variable overriding the command.
const EnvCommand = "VERDANT_PREFETCH_COMMAND"

// State of the runner's job machine.
type State int

// Runner states.
const (
	StateIdle State = iota
	StateRunning
	StateRerunQueued
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateRerunQueued:
		return "running-with-rerun-queued"
	}
	return "unknown"
}

// ExecFunc runs the snapshot command in dir and returns combined output
// and an error. Injectable for tests.
type ExecFunc func(command, dir string) (stdout, stderr string, err error)

// Runner owns the prefetch state machine. At most one OS process is
// active at any instant; callers never await completion.
type Runner struct {
	mu    sync.Mutex
	state State

	command string
	dir     string
	execFn  ExecFunc
	logger  *zerolog.Logger

	// done is broadcast after each run settles; tests use it to wait
	// without polling the exec function.
	done chan struct{}
}

// New creates a runner. The command comes from the argument, falling
// back to the VERDANT_PREFETCH_COMMAND environment variable, then to
// DefaultCommand. The command runs in the parent of the process working
// directory, where the site project lives.
func New(command string, logger *zerolog.Logger) *Runner {
	if command == "" {
		command = os.Getenv(EnvCommand)
	}
	if command == "" {
		command = DefaultCommand
	}

	dir := ".."
	if cwd, err := os.Getwd(); err == nil {
		dir = filepath.Dir(cwd)
	}

	return &Runner{
		command: command,
		dir:     dir,
		execFn:  shellExec,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// SetExecFunc replaces the process spawner. Test hook.
func (r *Runner) SetExecFunc(fn ExecFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execFn = fn
}

// State returns the current machine state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Command returns the configured snapshot command.
func (r *Runner) Command() string {
	return r.command
}

// Trigger requests a snapshot regeneration. Fire-and-forget: if a run is
// already active the request collapses into a single queued rerun. The
// reason string only tags log lines.
func (r *Runner) Trigger(reason string) {
	r.mu.Lock()
	switch r.state {
	case StateRunning, StateRerunQueued:
		r.state = StateRerunQueued
		r.mu.Unlock()
		r.logger.Debug().
			Str("reason", reason).
			Msg("Prefetch already running, rerun queued")
		return
	case StateIdle:
		r.state = StateRunning
	}
	r.mu.Unlock()

	go r.run(reason)
}

// run executes the command, then drains at most one queued rerun.
// Any exit, including a spawn failure, settles the state machine so a
// failed command never wedges the runner in "running".
func (r *Runner) run(reason string) {
	r.mu.Lock()
	execFn := r.execFn
	r.mu.Unlock()

	for {
		r.logger.Info().
			Str("reason", reason).
			Str("command", r.command).
			Str("dir", r.dir).
			Msg("Prefetch run starting")

		stdout, stderr, err := execFn(r.command, r.dir)
		if out := strings.TrimSpace(stdout); out != "" {
			r.logger.Info().Str("reason", reason).Msg("Prefetch stdout: " + out)
		}
		if errOut := strings.TrimSpace(stderr); errOut != "" {
			r.logger.Warn().Str("reason", reason).Msg("Prefetch stderr: " + errOut)
		}

		if err != nil {
			telemetry.PrefetchRuns.WithLabelValues("failure").Inc()
			r.logger.Error().
				Err(err).
				Str("reason", reason).
				Msg("Prefetch run failed")
		} else {
			telemetry.PrefetchRuns.WithLabelValues("success").Inc()
			r.logger.Info().
				Str("reason", reason).
				Msg("Prefetch run completed")
		}

		r.mu.Lock()
		if r.state == StateRerunQueued {
			r.state = StateRunning
			r.mu.Unlock()
			r.signalDone()
			reason = reason + " (rerun)"
			continue
		}
		r.state = StateIdle
		r.mu.Unlock()
		r.signalDone()
		return
	}
}

// signalDone wakes everything blocked in waitSettled.
func (r *Runner) signalDone() {
	r.mu.Lock()
	close(r.done)
	r.done = make(chan struct{})
	r.mu.Unlock()
}

// waitSettled blocks until the next run settles. Used by tests.
func (r *Runner) waitSettled() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// shellExec spawns the command through the shell.
func shellExec(command, dir string) (string, string, error) {
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
