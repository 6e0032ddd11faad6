package httptransport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"residency/internal/admin"
	"residency/internal/admin/adapters"
	citizenmodels "residency/internal/citizen/models"
	citizenstore "residency/internal/citizen/store"
	identitystore "residency/internal/identity/store"
	jwttoken "residency/internal/jwt_token"
	"residency/internal/platform/metrics"
	verificationhandler "residency/internal/verification/handler"
	"residency/internal/verification/service"
	"residency/internal/zipcode"
	id "residency/pkg/domain"
	auditmemory "residency/pkg/platform/audit/store/memory"
	"residency/pkg/testutil"
)

type routerFixture struct {
	handler  http.Handler
	citizens *citizenstore.InMemory
	tokens   *jwttoken.JWTService
}

func newRouterFixture(t *testing.T, ready func(context.Context) error) *routerFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	reg := prometheus.NewRegistry()
	citizens := citizenstore.NewInMemory()
	registry := zipcode.NewSet("9713BH")
	svc, err := service.New(citizens, identitystore.NewInMemory(), registry, service.DefaultConfig())
	require.NoError(t, err)
	tokens := jwttoken.NewJWTService("router-test-key", "residency", "residency-api")

	h := NewRouter(Deps{
		Logger:         logger,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		TokenValidator: jwttoken.NewJWTServiceAdapter(tokens),
		AdminToken:     "admin-secret",
		Citizen:        []RouteRegistrar{verificationhandler.New(svc, logger)},
		Admin: []RouteRegistrar{
			admin.New(adapters.NewCitizenStoreAdapter(citizens), auditmemory.NewInMemoryStore(), registry, logger),
		},
		Ready: ready,
	})
	return &routerFixture{handler: h, citizens: citizens, tokens: tokens}
}

func TestRouterVerifyFlow(t *testing.T) {
	f := newRouterFixture(t, nil)
	citizen, err := citizenmodels.NewCitizen(id.NewCitizenID(), time.Now())
	require.NoError(t, err)
	require.NoError(t, f.citizens.Create(context.Background(), citizen))
	token, err := f.tokens.GenerateAccessToken(citizen.ID, time.Hour)
	require.NoError(t, err)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/verify", map[string]any{
		"document_type":    "dni",
		"document_number":  "12345678Z",
		"date_of_birth":    "1980-01-31",
		"postal_code":      " 9713bh ",
		"terms_of_service": true,
	})
	rr := testutil.DoRequest(f.handler, testutil.WithBearer(req, token))

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "verified")
	assert.NotEmpty(t, rr.Header().Get("Content-Type"))

	metricsRR := testutil.DoRequest(f.handler, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(t, metricsRR)
	assert.Contains(t, metricsRR.Body.String(), `residency_http_requests_total{method="POST",route="/verify",status="200"} 1`)
}

func TestRouterRequiresBearerToken(t *testing.T) {
	f := newRouterFixture(t, nil)

	rr := testutil.DoRequest(f.handler, testutil.NewRequest(t, http.MethodGet, "/account"))
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")

	req := testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/account"), "not-a-token")
	rr = testutil.DoRequest(f.handler, req)
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestRouterAdminRoutes(t *testing.T) {
	f := newRouterFixture(t, nil)

	req := testutil.NewRequest(t, http.MethodGet, "/admin/zipcodes")
	req.Header.Set("X-Admin-Token", "admin-secret")
	rr := testutil.DoRequest(f.handler, req)
	testutil.AssertStatusOK(t, rr)
	assert.True(t, strings.Contains(rr.Body.String(), "9713BH"))

	rr = testutil.DoRequest(f.handler, testutil.NewRequest(t, http.MethodGet, "/admin/zipcodes"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestRouterHealth(t *testing.T) {
	f := newRouterFixture(t, func(context.Context) error { return errors.New("db down") })

	testutil.AssertStatusOK(t, testutil.DoRequest(f.handler, testutil.NewRequest(t, http.MethodGet, "/health")))
	testutil.AssertStatus(t, testutil.DoRequest(f.handler, testutil.NewRequest(t, http.MethodGet, "/ready")), http.StatusServiceUnavailable)
}

func TestRouterScaffold(t *testing.T) {
	testutil.Given(t, "the HTTP router", func(t *testing.T) {
		f := newRouterFixture(t, nil)

		testutil.When(t, "calling GET /health", func(t *testing.T) {
			rr := testutil.DoRequest(f.handler, testutil.NewRequest(t, http.MethodGet, "/health"))

			testutil.Then(t, "it should report ok", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "status", "ok")
			})
		})

		testutil.When(t, "calling an unknown route", func(t *testing.T) {
			rr := testutil.DoRequest(f.handler, testutil.NewRequest(t, http.MethodGet, "/auth/authorize"))

			testutil.Then(t, "it should respond with not found", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusNotFound)
			})
		})
	})
}
