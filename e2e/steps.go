package e2e

import (
	"github.com/cucumber/godog"

	"bloodconnect/e2e/steps/common"
	"bloodconnect/e2e/steps/donor"
	"bloodconnect/e2e/steps/staff"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	donor.RegisterSteps(ctx, tc)
	staff.RegisterSteps(ctx, tc)
}
