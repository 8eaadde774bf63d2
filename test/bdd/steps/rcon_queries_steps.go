package steps

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factoriobot/internal/adapters/rcon"
	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/cucumber/godog"
)

// rconQueriesContext exercises Rcon's fail-fast preflight checks through its
// exported query surface only. A zero-value *rcon.Rcon is legal to build
// from any package — Go permits constructing a struct with unexported
// fields at its zero value — and FindEntitiesFiltered's radius check runs
// before any of those unexported fields (client, mirror, ...) are touched.
type rconQueriesContext struct {
	client *rcon.Rcon
	err    error
}

func (rc *rconQueriesContext) reset() {
	rc.client = &rcon.Rcon{}
	rc.err = nil
}

func (rc *rconQueriesContext) anUninitializedRconClient() error {
	rc.reset()
	return nil
}

func (rc *rconQueriesContext) iRequestEntitiesWithinRadiusOfTheOrigin(radius float64) error {
	_, rc.err = rc.client.FindEntitiesFiltered(context.Background(), rcon.RadiusFilter(spatial.Position{}, radius), "", "")
	return nil
}

func (rc *rconQueriesContext) theCallShouldFailWithARadiusLimitErrorOf(limit float64) error {
	if rc.err == nil {
		return fmt.Errorf("expected a radius limit error, got none")
	}
	var radiusErr *shared.RadiusLimitReachedError
	if !asRadiusLimitError(rc.err, &radiusErr) {
		return fmt.Errorf("expected a RadiusLimitReachedError, got %v", rc.err)
	}
	if radiusErr.Limit != limit {
		return fmt.Errorf("expected radius limit %v, got %v", limit, radiusErr.Limit)
	}
	return nil
}

func asRadiusLimitError(err error, target **shared.RadiusLimitReachedError) bool {
	radiusErr, ok := err.(*shared.RadiusLimitReachedError)
	if !ok {
		return false
	}
	*target = radiusErr
	return true
}

// InitializeRconQueriesScenario registers Scenario E (radius ceiling) step
// definitions.
func InitializeRconQueriesScenario(sc *godog.ScenarioContext) {
	rc := &rconQueriesContext{}

	sc.Before(func(ctxIn context.Context, scenario *godog.Scenario) (context.Context, error) {
		rc.reset()
		return ctxIn, nil
	})

	sc.Step(`^an uninitialized rcon client$`, rc.anUninitializedRconClient)
	sc.Step(`^I request entities within radius ([0-9.]+) of the origin$`, rc.iRequestEntitiesWithinRadiusOfTheOrigin)
	sc.Step(`^the call should fail with a radius limit error of (\d+)$`, rc.theCallShouldFailWithARadiusLimitErrorOf)
}
