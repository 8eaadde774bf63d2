package supervisor

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/andrescamacho/factoriobot/internal/domain/telemetry"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// Gate names the two startup readiness levels spec.md §4.7 defines.
type Gate int

const (
	// Initialized fires on the game's first banner line.
	Initialized Gate = iota
	// DiscoveryComplete additionally waits for a STATIC_DATA_END telemetry
	// record, i.e. until TelemetryParser has ingested the initial prototype
	// and recipe dump.
	DiscoveryComplete
)

// serverReadyBanner/clientReadyBanner are the substrings of the first line
// the game emits once it has finished its own startup, distinct from the
// telemetry stream (spec.md §4.7: "wait for first sentinel line recognized
// by the game's initial banner"). The client case is grounded directly on
// process_control.rs's `line.contains("my_client_id")` check; the server
// matches the same "my_client_id" substring.
const (
	serverReadyBanner = "my_client_id"
	clientReadyBanner = "my_client_id"
)

// lineReader tails a child process's stdout, optionally mirroring every line
// to a log file, forwarding §-prefixed telemetry lines to parser (server
// role only), and firing gate signals exactly once each.
type lineReader struct {
	name            string
	parser          *telemetry.Parser // nil for client readers
	logFile         *os.File
	log             *logging.Logger
	banner          string
	initializedOnce sync.Once
	initialized     chan struct{}
	discoveryOnce   sync.Once
	discovery       chan struct{}
}

func newLineReader(name string, parser *telemetry.Parser, banner string, logFile *os.File, log *logging.Logger) *lineReader {
	return &lineReader{
		name:        name,
		parser:      parser,
		logFile:     logFile,
		log:         log,
		banner:      banner,
		initialized: make(chan struct{}),
		discovery:   make(chan struct{}),
	}
}

// run scans stdout line by line until EOF or a read error, driving telemetry
// parsing and gate signaling. It returns once the stream closes, so callers
// should invoke it from its own goroutine.
func (r *lineReader) run(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		r.handleLine(line)
	}
	if err := scanner.Err(); err != nil {
		r.log.With(nil).Warnf("%s: stdout reader stopped: %v", r.name, err)
	}
}

func (r *lineReader) handleLine(line string) {
	if r.logFile != nil {
		_, _ = r.logFile.WriteString(line + "\n")
	}

	if strings.HasPrefix(line, sectionSignPrefix) {
		if r.parser != nil {
			r.parser.ParseLine(line)
			if r.parser.StaticDataEndObserved() {
				r.discoveryOnce.Do(func() { close(r.discovery) })
			}
		}
		return
	}

	if !r.initializedClosed() && strings.Contains(line, r.banner) {
		r.initializedOnce.Do(func() { close(r.initialized) })
	}
	r.log.With(nil).Debugf("%s> %s", r.name, line)
}

func (r *lineReader) initializedClosed() bool {
	select {
	case <-r.initialized:
		return true
	default:
		return false
	}
}

// sectionSignPrefix is the UTF-8 encoding of the telemetry lead byte `§`
// (spec.md §6.1), duplicated here rather than imported so this package
// doesn't need to reach into telemetry's internals for a one-byte constant.
const sectionSignPrefix = "§"
