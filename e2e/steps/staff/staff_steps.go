package staff

import (
	"context"
	"fmt"
	"os"

	"github.com/cucumber/godog"
)

// Seeded by SEED_DATA=true.
const (
	downtownBranchID = "00000000-0000-0000-0000-000000000001"
	lowHbReasonID    = "00000000-0000-0000-0001-000000000001"
)

type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	LastStatus() int
	LastBody() string
	GetString(field string) (string, error)
	SetAccessToken(token string)
	Saved(key string) (string, error)
}

// RegisterSteps registers staff authentication and screening steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &staffSteps{tc: tc}
	ctx.Step(`^I am logged in as the admin$`, steps.loginAsAdmin)
	ctx.Step(`^I log in with password "([^"]*)"$`, steps.loginWithPassword)
	ctx.Step(`^I log out$`, steps.logout)
	ctx.Step(`^I record an "(eligible|deferred)" screening at the seeded branch$`, steps.recordScreening)
	ctx.Step(`^I list screenings for the donor$`, steps.listScreenings)
}

type staffSteps struct {
	tc TestContext
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func adminCredentials() (string, string) {
	return env("E2E_ADMIN_USERNAME", "e2e-admin"), env("E2E_ADMIN_PASSWORD", "e2e-admin-password")
}

// loginAsAdmin logs in, bootstrapping the first account on an empty server.
func (s *staffSteps) loginAsAdmin(ctx context.Context) error {
	username, password := adminCredentials()
	if err := s.login(username, password); err != nil {
		return err
	}
	if s.tc.LastStatus() == 401 {
		err := s.tc.POST("/api/auth/register", map[string]any{
			"username": username,
			"email":    username + "@bloodconnect.test",
			"password": password,
		})
		if err != nil {
			return err
		}
		if s.tc.LastStatus() != 201 {
			return fmt.Errorf("bootstrap registration returned %d: %s", s.tc.LastStatus(), s.tc.LastBody())
		}
	}
	token, err := s.tc.GetString("token")
	if err != nil {
		return err
	}
	s.tc.SetAccessToken(token)
	return nil
}

func (s *staffSteps) login(username, password string) error {
	return s.tc.POST("/api/auth/login", map[string]any{"username": username, "password": password})
}

func (s *staffSteps) loginWithPassword(ctx context.Context, password string) error {
	username, _ := adminCredentials()
	return s.login(username, password)
}

func (s *staffSteps) logout(ctx context.Context) error {
	return s.tc.POST("/api/auth/logout", map[string]any{})
}

func (s *staffSteps) recordScreening(ctx context.Context, status string) error {
	donorID, err := s.tc.Saved("donorId")
	if err != nil {
		return err
	}
	body := map[string]any{
		"donorId":           donorID,
		"branchId":          downtownBranchID,
		"eligibilityStatus": status,
		"vitals": map[string]any{
			"bpSystolic": 118, "bpDiastolic": 76, "pulse": 72,
			"tempC": 36.8, "weightKg": 64.5, "hbGdl": 13.4,
		},
	}
	if status == "deferred" {
		body["deferralReasonId"] = lowHbReasonID
		body["vitals"].(map[string]any)["hbGdl"] = 11.2
	}
	return s.tc.POST("/api/screenings", body)
}

func (s *staffSteps) listScreenings(ctx context.Context) error {
	donorID, err := s.tc.Saved("donorId")
	if err != nil {
		return err
	}
	return s.tc.GET("/api/screenings/donor/" + donorID)
}
