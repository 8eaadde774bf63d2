package bdd

import (
	"testing"

	"github.com/andrescamacho/factoriobot/test/bdd/steps"
	"github.com/cucumber/godog"
)

// TestFeatures drives spec.md §8's Scenarios A, B, C and E end to end
// through Gherkin. Scenarios D (path retry rotation) and F (action
// completion) run as their own godog suite inside
// internal/adapters/rcon — see that package's bdd_test.go for why.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	steps.InitializeEntityGraphScenario(sc)
	steps.InitializeFlowGraphScenario(sc)
	steps.InitializeRconQueriesScenario(sc)
}
