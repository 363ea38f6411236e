package donor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/cucumber/godog"
)

type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	GetString(field string) (string, error)
	Save(key, value string)
	Saved(key string) (string, error)
}

// RegisterSteps registers the public kiosk steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &donorSteps{tc: tc}
	ctx.Step(`^I request the next coupon code$`, steps.requestNextCoupon)
	ctx.Step(`^I register a donor with a unique national ID$`, steps.registerUnique)
	ctx.Step(`^I register the same donor again$`, steps.registerAgain)
	ctx.Step(`^a registered donor$`, steps.registeredDonor)
	ctx.Step(`^the coupon code should be numeric$`, steps.couponIsNumeric)
	ctx.Step(`^I look up the registered donor by coupon code$`, steps.lookupByCoupon)
}

type donorSteps struct {
	tc TestContext
}

func (s *donorSteps) requestNextCoupon(ctx context.Context) error {
	return s.tc.GET("/api/donors/next-coupon")
}

func registration(nationalID string) map[string]any {
	return map[string]any{
		"fullName":   "Kiosk Donor",
		"age":        29,
		"gender":     "female",
		"bloodGroup": "B+",
		"phone":      "03001234567",
		"email":      "kiosk.donor@example.com",
		"nationalId": nationalID,
		"address":    map[string]any{"line1": "12 Mall Road", "city": "Lahore", "country": "Pakistan"},
	}
}

func (s *donorSteps) registerUnique(ctx context.Context) error {
	nationalID := "35202-" + strconv.FormatUint(rand.Uint64N(1_000_000_000), 10)
	s.tc.Save("nationalId", nationalID)
	if err := s.tc.POST("/api/donors", registration(nationalID)); err != nil {
		return err
	}
	// Later steps read these; a failed registration leaves them unset.
	if code, err := s.tc.GetString("couponCode"); err == nil {
		s.tc.Save("couponCode", code)
	}
	if donorID, err := s.tc.GetString("donorId"); err == nil {
		s.tc.Save("donorId", donorID)
	}
	return nil
}

func (s *donorSteps) registerAgain(ctx context.Context) error {
	nationalID, err := s.tc.Saved("nationalId")
	if err != nil {
		return err
	}
	return s.tc.POST("/api/donors", registration(nationalID))
}

func (s *donorSteps) registeredDonor(ctx context.Context) error {
	if err := s.registerUnique(ctx); err != nil {
		return err
	}
	if _, err := s.tc.Saved("donorId"); err != nil {
		return fmt.Errorf("donor registration failed: %w", err)
	}
	return nil
}

func (s *donorSteps) couponIsNumeric(ctx context.Context) error {
	code, err := s.tc.GetString("couponCode")
	if err != nil {
		return err
	}
	if len(code) < 4 {
		return fmt.Errorf("coupon %q shorter than four digits", code)
	}
	if _, err := strconv.ParseUint(code, 10, 64); err != nil {
		return fmt.Errorf("coupon %q is not numeric", code)
	}
	return nil
}

func (s *donorSteps) lookupByCoupon(ctx context.Context) error {
	code, err := s.tc.Saved("couponCode")
	if err != nil {
		return err
	}
	return s.tc.GET("/api/donors/coupon/" + code)
}
