package launcher

import (
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/logger"
)

// terminateGrace bounds how long TerminateAll waits for a child to exit
// after SIGTERM before falling back to a hard kill.
const terminateGrace = 5 * time.Second

// child is one spawned echo-server process. done is closed once the
// process has been reaped.
type child struct {
	path string
	cmd  *exec.Cmd
	done chan struct{}
}

func (c *child) exited() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Launcher starts the echo-server binaries as independent child processes
// and supervises their lifetime. It performs no work while idle; its only
// cancellation path is an external interrupt.
type Launcher struct {
	children []*child
	log      zerolog.Logger
}

func New() *Launcher {
	return &Launcher{log: logger.WithComponent("launcher")}
}

// LaunchAll spawns one process per path with no arguments. A spawn failure
// is logged and that entry is omitted from the managed set; the remaining
// paths are still launched. Child output is inherited so the echo servers'
// own logs stay visible.
func (l *Launcher) LaunchAll(paths []string) {
	for _, path := range paths {
		cmd := exec.Command(path)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			l.log.Error().Err(err).Str("path", path).Msg("Failed to launch server")
			continue
		}
		c := &child{path: path, cmd: cmd, done: make(chan struct{})}
		go func() {
			cmd.Wait()
			close(c.done)
		}()
		l.children = append(l.children, c)
		l.log.Info().Str("path", path).Int("pid", cmd.Process.Pid).Msg("Server launched")
	}
	l.log.Info().Int("count", len(l.children)).Msg("All servers have been launched. Press Ctrl+C to exit.")
}

// Running reports how many spawned children have not exited yet.
func (l *Launcher) Running() int {
	n := 0
	for _, c := range l.children {
		if !c.exited() {
			n++
		}
	}
	return n
}

// WaitForCancellation blocks until the process receives an interrupt or
// termination signal.
func (l *Launcher) WaitForCancellation() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	sig := <-sigCh
	l.log.Info().Str("signal", sig.String()).Msg("Cancellation received")
}

// TerminateAll sends SIGTERM to every live child and reaps it. Best-effort:
// a child that already exited is skipped, and one that ignores SIGTERM is
// killed after the grace period.
func (l *Launcher) TerminateAll() {
	for _, c := range l.children {
		if c.exited() {
			continue
		}
		if err := c.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			l.log.Warn().Err(err).Str("path", c.path).Msg("Failed to signal server")
		}
		select {
		case <-c.done:
		case <-time.After(terminateGrace):
			l.log.Warn().Str("path", c.path).Msg("Server did not exit in time, killing")
			c.cmd.Process.Kill()
			<-c.done
		}
	}
	l.log.Info().Msg("All servers have been terminated.")
}
