package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"residency/internal/admin/adapters"
	citizenmodels "residency/internal/citizen/models"
	citizenstore "residency/internal/citizen/store"
	"residency/internal/zipcode"
	id "residency/pkg/domain"
	"residency/pkg/platform/audit"
	auditmemory "residency/pkg/platform/audit/store/memory"
	"residency/pkg/platform/middleware/admin"
)

const adminToken = "secret-token"

type adminFixture struct {
	router   http.Handler
	citizens *citizenstore.InMemory
	events   *auditmemory.InMemoryStore
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	citizens := citizenstore.NewInMemory()
	events := auditmemory.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(adapters.NewCitizenStoreAdapter(citizens), events, zipcode.NewSet("9713BH", "9711aa"), logger)
	r := chi.NewRouter()
	r.Use(admin.RequireAdminToken(adminToken, logger))
	h.Register(r)
	return &adminFixture{router: r, citizens: citizens, events: events}
}

func (f *adminFixture) get(path string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAdminTokenRequired(t *testing.T) {
	f := newAdminFixture(t)

	if rec := f.get("/admin/zipcodes", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when admin token missing, got %d", rec.Code)
	}
	if rec := f.get("/admin/zipcodes", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong admin token, got %d", rec.Code)
	}
}

func TestListZipcodes(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.get("/admin/zipcodes", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ZipcodesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || resp.Codes[0] != "9711AA" || resp.Codes[1] != "9713BH" {
		t.Fatalf("unexpected zipcodes: %+v", resp)
	}
}

func TestGetCitizen(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	citizen, err := citizenmodels.NewCitizen(id.NewCitizenID(), now)
	if err != nil {
		t.Fatalf("new citizen: %v", err)
	}
	doc, err := id.NewDocumentIdentity(id.DocumentTypeNationalID, "12345678Z")
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	dob := time.Date(1980, 1, 31, 0, 0, 0, 0, time.UTC)
	if err := citizen.Verify(citizenmodels.Residence{Document: doc, DateOfBirth: dob, PostalCode: "9713BH"}, now); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := f.citizens.Create(ctx, citizen); err != nil {
		t.Fatalf("create citizen: %v", err)
	}
	if err := f.events.Append(ctx, audit.Event{
		Category:      audit.CategoryCompliance,
		Timestamp:     now,
		CitizenID:     citizen.ID,
		Action:        string(audit.EventVerificationVerified),
		Decision:      "verified",
		SubjectIDHash: doc.Hash(),
	}); err != nil {
		t.Fatalf("append event: %v", err)
	}

	rec := f.get("/admin/citizens/"+citizen.ID.String(), adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if bytes.Contains([]byte(body), []byte("12345678Z")) {
		t.Fatalf("response leaks the document number: %s", body)
	}

	var resp CitizenResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Level != "verified" || resp.DocumentHash != doc.Hash() {
		t.Fatalf("unexpected citizen: %+v", resp)
	}
	if len(resp.Events) != 1 || resp.Events[0].Action != "verification_verified" {
		t.Fatalf("unexpected events: %+v", resp.Events)
	}
}

func TestGetCitizenErrors(t *testing.T) {
	f := newAdminFixture(t)

	if rec := f.get("/admin/citizens/not-a-uuid", adminToken); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
	if rec := f.get("/admin/citizens/"+id.NewCitizenID().String(), adminToken); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown citizen, got %d", rec.Code)
	}
}
