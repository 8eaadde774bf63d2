package supervisor

import (
	"strings"
	"testing"
	"time"

	"github.com/andrescamacho/factoriobot/internal/domain/telemetry"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReaderFiresInitializedOnBannerLine(t *testing.T) {
	r := newLineReader("client1", nil, clientReadyBanner, nil, logging.NewNop())
	input := strings.NewReader("some boring log line\nwelcome my_client_id=3\nmore output\n")

	done := make(chan struct{})
	go func() { r.run(input); close(done) }()

	select {
	case <-r.initialized:
	case <-time.After(time.Second):
		t.Fatal("initialized never fired")
	}
	<-done
}

func TestLineReaderNeverFiresInitializedWithoutBanner(t *testing.T) {
	r := newLineReader("client1", nil, clientReadyBanner, nil, logging.NewNop())
	input := strings.NewReader("line one\nline two\n")
	r.run(input)

	select {
	case <-r.initialized:
		t.Fatal("initialized should not have fired")
	default:
	}
}

func TestLineReaderForwardsTelemetryAndFiresDiscoveryComplete(t *testing.T) {
	mirror := world.New()
	parser := telemetry.New(mirror, logging.NewNop(), nil)
	r := newLineReader("server", parser, serverReadyBanner, nil, logging.NewNop())

	input := strings.NewReader("§0 STATIC_DATA_END\n")
	r.run(input)

	select {
	case <-r.discovery:
	default:
		t.Fatal("discovery should have fired once STATIC_DATA_END was observed")
	}
	assert.True(t, parser.StaticDataEndObserved())
}

func TestLineReaderIgnoresNonSectionLines(t *testing.T) {
	mirror := world.New()
	parser := telemetry.New(mirror, logging.NewNop(), nil)
	r := newLineReader("server", parser, serverReadyBanner, nil, logging.NewNop())

	input := strings.NewReader("plain informational output, not telemetry\n")
	r.run(input)

	require.False(t, parser.StaticDataEndObserved())
}
