package verification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	StartServer(postalCodes []string, minimumAge int) error
	RegisterCitizen(name string) error
	TokenFor(name string) (string, error)
	POST(path string, body any, headers map[string]string) error
	GET(path string, headers map[string]string) error
	GetResponseStatus() int
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers verification step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &verificationSteps{tc: tc}

	ctx.Step(`^the eligible postal codes are "([^"]*)" and the minimum age is (\d+)$`, steps.startServer)
	ctx.Step(`^citizen "([^"]*)" has an account$`, steps.registerCitizen)
	ctx.Step(`^citizen "([^"]*)" aged (\d+) verifies with document "([^"]*)" and postal code "([^"]*)"$`, steps.verify)
	ctx.Step(`^citizen "([^"]*)" verifies without accepting the terms of service$`, steps.verifyWithoutTerms)
	ctx.Step(`^citizen "([^"]*)" checks the account$`, steps.checkAccount)

	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.responseFieldShouldBe)
	ctx.Step(`^the response should not contain "([^"]*)"$`, steps.responseShouldNotContain)
}

type verificationSteps struct {
	tc TestContext
}

func (s *verificationSteps) startServer(ctx context.Context, codes string, minimumAge int) error {
	return s.tc.StartServer(strings.Split(codes, ","), minimumAge)
}

func (s *verificationSteps) registerCitizen(ctx context.Context, name string) error {
	return s.tc.RegisterCitizen(name)
}

func (s *verificationSteps) authHeader(name string) (map[string]string, error) {
	token, err := s.tc.TokenFor(name)
	if err != nil {
		return nil, err
	}
	return map[string]string{"Authorization": "Bearer " + token}, nil
}

func (s *verificationSteps) verify(ctx context.Context, name string, age int, document, postalCode string) error {
	headers, err := s.authHeader(name)
	if err != nil {
		return err
	}
	// A birthday one day past the anniversary keeps the age exact
	// regardless of the time of day the scenario runs.
	dob := time.Now().UTC().AddDate(-age, 0, -1).Format("2006-01-02")
	return s.tc.POST("/verify", map[string]any{
		"document_type":    "1",
		"document_number":  document,
		"date_of_birth":    dob,
		"postal_code":      postalCode,
		"terms_of_service": true,
	}, headers)
}

func (s *verificationSteps) verifyWithoutTerms(ctx context.Context, name string) error {
	headers, err := s.authHeader(name)
	if err != nil {
		return err
	}
	return s.tc.POST("/verify", map[string]any{
		"document_type":   "1",
		"document_number": "12345678Z",
		"date_of_birth":   "1980-01-31",
		"postal_code":     "9713BH",
	}, headers)
}

func (s *verificationSteps) checkAccount(ctx context.Context, name string) error {
	headers, err := s.authHeader(name)
	if err != nil {
		return err
	}
	return s.tc.GET("/account", headers)
}

func (s *verificationSteps) responseStatusShouldBe(ctx context.Context, status int) error {
	if got := s.tc.GetResponseStatus(); got != status {
		return fmt.Errorf("expected status %d, got %d", status, got)
	}
	return nil
}

func (s *verificationSteps) responseFieldShouldBe(ctx context.Context, field, want string) error {
	got, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(got) != want {
		return fmt.Errorf("expected %s %q, got %q", field, want, got)
	}
	return nil
}

func (s *verificationSteps) responseShouldNotContain(ctx context.Context, field string) error {
	if _, err := s.tc.GetResponseField(field); err == nil {
		return fmt.Errorf("expected response without %q", field)
	}
	return nil
}
