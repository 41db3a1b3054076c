package prefetch

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/pkg/logging"
)

func testRunner(fn ExecFunc) *Runner {
	logger := zerolog.Nop()
	r := New("true", &logger)
	r.SetExecFunc(fn)
	return r
}

func TestRunner_StateStrings(t *testing.T) {
	cases := map[State]string{
		StateIdle:        "idle",
		StateRunning:     "running",
		StateRerunQueued: "running-with-rerun-queued",
		State(99):        "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}

func TestRunner_SingleTrigger(t *testing.T) {
	var launches atomic.Int32
	r := testRunner(func(command, dir string) (string, string, error) {
		launches.Add(1)
		return "snapshot written", "", nil
	})

	settled := r.waitSettled()
	r.Trigger("product afterUpdate")
	<-settled

	if got := launches.Load(); got != 1 {
		t.Errorf("launches = %d, want 1", got)
	}
	if r.State() != StateIdle {
		t.Errorf("state = %s, want idle", r.State())
	}
}

func TestRunner_ConcurrentTriggersCoalesceToTwoRuns(t *testing.T) {
	const n = 25

	var launches atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	r := testRunner(func(command, dir string) (string, string, error) {
		if launches.Add(1) == 1 {
			once.Do(func() { close(started) })
			<-release // hold the first run until all triggers landed
		}
		return "", "", nil
	})

	r.Trigger("first")
	<-started

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Trigger("burst")
		}()
	}
	wg.Wait()

	if r.State() != StateRerunQueued {
		t.Fatalf("state during burst = %s, want rerun-queued", r.State())
	}

	close(release)

	// Wait for the machine to settle back to idle.
	deadline := time.Now().Add(2 * time.Second)
	for r.State() != StateIdle {
		if time.Now().After(deadline) {
			t.Fatalf("runner never settled, state = %s", r.State())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// One immediate run plus exactly one queued rerun, regardless of N.
	if got := launches.Load(); got != 2 {
		t.Errorf("launches = %d, want 2", got)
	}
}

func TestRunner_SpawnFailureResetsToIdle(t *testing.T) {
	r := testRunner(func(command, dir string) (string, string, error) {
		return "", "sh: npm: command not found", errors.New("exec: not found")
	})

	settled := r.waitSettled()
	r.Trigger("hero-section afterUpdate")
	<-settled

	if r.State() != StateIdle {
		t.Errorf("state after spawn failure = %s, want idle", r.State())
	}

	// The runner must accept new triggers after a failure.
	var launches atomic.Int32
	r.SetExecFunc(func(command, dir string) (string, string, error) {
		launches.Add(1)
		return "", "", nil
	})
	settled = r.waitSettled()
	r.Trigger("retry")
	<-settled

	if launches.Load() != 1 {
		t.Error("runner stuck after spawn failure")
	}
}

func TestRunner_SwapExecFuncDuringTriggers(t *testing.T) {
	// SetExecFunc and Trigger race from parallel goroutines; the run
	// loop snapshots the function under the lock, so the race detector
	// stays quiet and every launch uses a coherent function value.
	var launches atomic.Int32
	count := func(command, dir string) (string, string, error) {
		launches.Add(1)
		return "", "", nil
	}
	r := testRunner(count)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.SetExecFunc(count)
		}()
		go func() {
			defer wg.Done()
			r.Trigger("swap burst")
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for r.State() != StateIdle {
		if time.Now().After(deadline) {
			t.Fatalf("runner never settled, state = %s", r.State())
		}
		time.Sleep(5 * time.Millisecond)
	}

	if launches.Load() == 0 {
		t.Error("no run launched during the swap burst")
	}
}

func TestRunner_LogsTaggedWithReason(t *testing.T) {
	tl := logging.NewTestLogger(t)
	r := New("true", tl.Logger)
	r.SetExecFunc(func(command, dir string) (string, string, error) {
		return "ok", "", nil
	})

	settled := r.waitSettled()
	r.Trigger("product afterUpdate")
	<-settled

	if !tl.Contains("product afterUpdate") {
		t.Errorf("log output missing reason tag:\n%s", tl.Output())
	}
}

func TestRunner_CommandDefaults(t *testing.T) {
	logger := zerolog.Nop()

	r := New("", &logger)
	if r.Command() != DefaultCommand {
		t.Errorf("default command = %q", r.Command())
	}

	t.Setenv(EnvCommand, "make snapshot")
	r = New("", &logger)
	if r.Command() != "make snapshot" {
		t.Errorf("env command = %q", r.Command())
	}

	r = New("./scripts/fetch.sh", &logger)
	if r.Command() != "./scripts/fetch.sh" {
		t.Errorf("explicit command = %q", r.Command())
	}
}
