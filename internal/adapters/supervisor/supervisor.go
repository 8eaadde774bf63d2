package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/google/uuid"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/telemetry"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// instance bundles a launched child process with the reader tailing it.
type instance struct {
	name   string
	cmd    *exec.Cmd
	reader *lineReader
	file   *os.File
}

// Supervisor launches the game's server/client processes, await a sentinel
// gate before returning control to the caller, and tears them down in
// reverse order (spec.md §4.7).
type Supervisor struct {
	settings Settings
	clock    shared.Clock
	log      *logging.Logger
	mirror   *world.Mirror
	parser   *telemetry.Parser

	sessionID string
	server    *instance
	clients   []*instance
	stopped   bool
}

// New builds a Supervisor bound to settings and mirror. The parser driving
// telemetry off the server's stdout is built internally so the supervisor
// owns the only producer writing into mirror.
func New(settings Settings, mirror *world.Mirror, log *logging.Logger, clock shared.Clock) *Supervisor {
	return &Supervisor{
		settings:  settings,
		clock:     clock,
		log:       log,
		mirror:    mirror,
		parser:    telemetry.New(mirror, log, nil),
		sessionID: uuid.NewString(),
	}
}

// SessionID identifies this supervised launch, for correlating log lines
// and the audit trail in internal/adapters/persistence across restarts.
func (s *Supervisor) SessionID() string {
	return s.sessionID
}

// Start validates the instance layout, launches the server (unless
// settings.IsRemoteServer()) and settings.ClientCount clients, and blocks
// until the requested gate fires.
func (s *Supervisor) Start(ctx context.Context, gate Gate) error {
	if !s.settings.IsRemoteServer() {
		if err := s.startServer(ctx, gate); err != nil {
			return err
		}
	}
	for i := 1; i <= s.settings.ClientCount; i++ {
		if err := s.startClient(ctx, clientInstanceName(i)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Supervisor) startServer(ctx context.Context, gate Gate) error {
	const name = "server"
	if err := s.validateServerInstance(name); err != nil {
		return err
	}
	if err := awaitLock(s.settings.lockPath(name), s.clock, s.log); err != nil {
		return err
	}

	args := []string{
		"--start-server", s.settings.savesLevelPath(name),
		"--port", "34197",
		"--rcon-port", strconv.Itoa(s.settings.RconPort),
		"--rcon-password", s.settings.RconPass,
		"--server-settings", s.settings.serverSettingsPath(name),
	}
	cmd := exec.CommandContext(ctx, s.settings.binaryPath(name), args...)

	reader := newLineReader(name, s.parser, serverReadyBanner, nil, s.log)
	inst, err := s.launch(name, cmd, reader)
	if err != nil {
		return err
	}
	s.server = inst

	return s.awaitGate(ctx, reader, gate)
}

func (s *Supervisor) startClient(ctx context.Context, name string) error {
	instancePath := s.settings.instancePath(name)
	if _, err := os.Stat(instancePath); err != nil {
		return shared.ErrInstanceMissing
	}
	binary := s.settings.binaryPath(name)
	if _, err := os.Stat(binary); err != nil {
		return shared.ErrBinaryMissing
	}
	if err := awaitLock(s.settings.lockPath(name), s.clock, s.log); err != nil {
		return err
	}

	host := s.settings.ServerHost
	if host == "" {
		host = "localhost"
	}
	args := []string{
		"--mp-connect", host,
		"--graphics-quality", "low",
		"--disable-audio",
	}
	cmd := exec.CommandContext(ctx, binary, args...)

	reader := newLineReader(name, nil, clientReadyBanner, nil, s.log)
	inst, err := s.launch(name, cmd, reader)
	if err != nil {
		return err
	}
	s.clients = append(s.clients, inst)

	select {
	case <-reader.initialized:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) launch(name string, cmd *exec.Cmd, reader *lineReader) (*instance, error) {
	var logFile *os.File
	if s.settings.WriteLogs {
		f, err := os.Create(s.settings.logPath(name))
		if err == nil {
			logFile = f
			reader.logFile = f
		} else {
			s.log.With(nil).Warnf("%s: failed to open log file: %v", name, err)
		}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, shared.NewDomainError(fmt.Sprintf("%s: failed to attach stdout: %v", name, err))
	}
	if err := cmd.Start(); err != nil {
		return nil, shared.NewDomainError(fmt.Sprintf("%s: failed to start: %v", name, err))
	}
	go reader.run(stdout)

	return &instance{name: name, cmd: cmd, reader: reader, file: logFile}, nil
}

func (s *Supervisor) awaitGate(ctx context.Context, reader *lineReader, gate Gate) error {
	signal := reader.initialized
	if gate == DiscoveryComplete {
		signal = reader.discovery
	}
	select {
	case <-signal:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// validateServerInstance checks the preconditions start_factorio_server
// asserts before launching (spec.md §4.7; original_source's
// process_control.rs `start_factorio_server`).
func (s *Supervisor) validateServerInstance(name string) error {
	if s.settings.WorkspacePath == "" {
		return shared.ErrWorkspaceMissing
	}
	if _, err := os.Stat(s.settings.WorkspacePath); err != nil {
		return shared.ErrWorkspaceMissing
	}
	if _, err := os.Stat(s.settings.instancePath(name)); err != nil {
		return shared.ErrInstanceMissing
	}
	if _, err := os.Stat(s.settings.binaryPath(name)); err != nil {
		return shared.ErrBinaryMissing
	}
	if _, err := os.Stat(s.settings.savesLevelPath(name)); err != nil {
		return shared.ErrSavesMissing
	}
	if _, err := os.Stat(s.settings.serverSettingsPath(name)); err != nil {
		return shared.ErrSettingsMissing
	}
	return nil
}

// Stop kills every client, then the server, in that order. Individual kill
// failures are logged, never returned: teardown always completes
// best-effort (spec.md §4.7).
func (s *Supervisor) Stop() error {
	if s.stopped {
		return shared.ErrSupervisorStopped
	}
	s.stopped = true

	for _, c := range s.clients {
		s.killInstance(c)
	}
	if s.server != nil {
		s.killInstance(s.server)
	}
	return nil
}

func (s *Supervisor) killInstance(inst *instance) {
	if inst.cmd.Process != nil {
		if err := inst.cmd.Process.Kill(); err != nil {
			s.log.With(nil).Warnf("%s: failed to kill: %v", inst.name, err)
		}
	}
	if inst.file != nil {
		_ = inst.file.Close()
	}
}
