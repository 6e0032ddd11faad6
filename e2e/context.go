// Package e2e runs the Gherkin features in features/ against an in-process
// residency server backed by memory stores.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	citizenmodels "residency/internal/citizen/models"
	citizenstore "residency/internal/citizen/store"
	identitystore "residency/internal/identity/store"
	jwttoken "residency/internal/jwt_token"
	httptransport "residency/internal/transport/http"
	verificationhandler "residency/internal/verification/handler"
	verificationmetrics "residency/internal/verification/metrics"
	"residency/internal/verification/service"
	"residency/internal/zipcode"
	id "residency/pkg/domain"
	"residency/pkg/platform/audit/publishers/compliance"
	auditmemory "residency/pkg/platform/audit/store/memory"
)

// TestContext holds one scenario's server, citizens, and last response.
type TestContext struct {
	server   *httptest.Server
	citizens *citizenstore.InMemory
	tokens   *jwttoken.JWTService
	tokenFor map[string]string

	lastStatus int
	lastBody   map[string]any
}

func NewTestContext() *TestContext {
	return &TestContext{tokenFor: make(map[string]string)}
}

// StartServer boots a fresh server for the scenario.
func (tc *TestContext) StartServer(postalCodes []string, minimumAge int) error {
	tc.Close()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tc.citizens = citizenstore.NewInMemory()
	tc.tokens = jwttoken.NewJWTService("e2e-signing-key", "residency", "residency-api")

	cfg := service.DefaultConfig()
	cfg.MinimumAge = minimumAge
	svc, err := service.New(tc.citizens, identitystore.NewInMemory(), zipcode.NewSet(postalCodes...), cfg,
		service.WithLogger(logger),
		service.WithMetrics(verificationmetrics.New(prometheus.NewRegistry())),
		service.WithAuditPublisher(compliance.New(auditmemory.NewInMemoryStore())),
	)
	if err != nil {
		return err
	}

	tc.server = httptest.NewServer(httptransport.NewRouter(httptransport.Deps{
		Logger:         logger,
		TokenValidator: jwttoken.NewJWTServiceAdapter(tc.tokens),
		Citizen:        []httptransport.RouteRegistrar{verificationhandler.New(svc, logger)},
	}))
	return nil
}

func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
	}
	tc.tokenFor = make(map[string]string)
	tc.lastStatus = 0
	tc.lastBody = nil
}

// RegisterCitizen creates an unverified account, as the account layer would,
// and issues its bearer token.
func (tc *TestContext) RegisterCitizen(name string) error {
	if tc.server == nil {
		return fmt.Errorf("server not started")
	}
	citizen, err := citizenmodels.NewCitizen(id.NewCitizenID(), time.Now())
	if err != nil {
		return err
	}
	if err := tc.citizens.Create(context.Background(), citizen); err != nil {
		return err
	}
	token, err := tc.tokens.GenerateAccessToken(citizen.ID, time.Hour)
	if err != nil {
		return err
	}
	tc.tokenFor[name] = token
	return nil
}

func (tc *TestContext) TokenFor(name string) (string, error) {
	token, ok := tc.tokenFor[name]
	if !ok {
		return "", fmt.Errorf("citizen %q is not registered", name)
	}
	return token, nil
}

func (tc *TestContext) POST(path string, body any, headers map[string]string) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tc.do(http.MethodPost, path, bytes.NewReader(raw), headers)
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers)
}

func (tc *TestContext) do(method, path string, body io.Reader, headers map[string]string) error {
	req, err := http.NewRequest(method, tc.server.URL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := tc.server.Client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody = nil
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &tc.lastBody); err != nil {
			return fmt.Errorf("decode response %q: %w", strings.TrimSpace(string(raw)), err)
		}
	}
	return nil
}

func (tc *TestContext) GetResponseStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) GetResponseField(field string) (any, error) {
	v, ok := tc.lastBody[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q: %v", field, tc.lastBody)
	}
	return v, nil
}
