package e2e

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs the Gherkin suite against BLOODCONNECT_URL. The server
// must be started with SEED_DATA=true.
func TestFeatures(t *testing.T) {
	if os.Getenv("BLOODCONNECT_URL") == "" {
		t.Skip("BLOODCONNECT_URL not set")
	}
	tc := NewTestContext()
	suite := godog.TestSuite{
		Name: "bloodconnect",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				tc.Reset()
				return ctx, nil
			})
			RegisterSteps(sc, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
