package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/meridianhq/go-psi/internal/codeset"
	"github.com/meridianhq/go-psi/internal/psi"
)

func testHandler(t *testing.T) *EvaluationHandler {
	t.Helper()
	sets := `{"LOWMODR": ["470"], "TRAUMID": [], "CANCEID": [], "IMMUNID": [], "IMMUNIP": []}`
	reg := codeset.Load(strings.NewReader(sets), zap.NewNop())
	defs := psi.Definitions{
		"PSI_02": {PopulationType: psi.PopulationAdult},
	}
	engine := psi.New(reg, defs, zap.NewNop())
	return NewEvaluationHandler(engine, nil, nil, zap.NewNop())
}

func TestEvaluateEndpoint(t *testing.T) {
	h := testHandler(t)

	body, _ := json.Marshal(EvaluateRequest{
		Encounter: map[string]string{
			"EncounterID":           "E-3001",
			"AGE":                   "54",
			"SEX":                   "F",
			"MS-DRG":                "470",
			"MDC":                   "8",
			"Pdx":                   "M1711",
			"POA1":                  "Y",
			"Discharge_Disposition": "20",
		},
		Indicators: []string{"PSI_02"},
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp EvaluateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.EncounterID != "E-3001" {
		t.Errorf("expected encounter E-3001, got %q", resp.EncounterID)
	}
	res, ok := resp.Results["PSI_02"]
	if !ok {
		t.Fatal("expected PSI_02 in results")
	}
	if res.Status != psi.StatusInclusion {
		t.Errorf("expected Inclusion, got %q (%s)", res.Status, res.Rationale)
	}
}

func TestEvaluateEndpointDefaultsToAllIndicators(t *testing.T) {
	h := testHandler(t)

	body, _ := json.Marshal(EvaluateRequest{
		Encounter: map[string]string{
			"EncounterID":           "E-3002",
			"AGE":                   "54",
			"SEX":                   "F",
			"MS-DRG":                "470",
			"MDC":                   "8",
			"Pdx":                   "M1711",
			"POA1":                  "Y",
			"Discharge_Disposition": "1",
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp EvaluateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Results) != 17 {
		t.Errorf("expected 17 indicator results, got %d", len(resp.Results))
	}
}

func TestEvaluateEndpointRejectsEmptyBody(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEvaluateEndpointPersistWithoutStore(t *testing.T) {
	h := testHandler(t)

	body, _ := json.Marshal(EvaluateRequest{
		Encounter: map[string]string{"EncounterID": "E-3003"},
		Persist:   true,
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestIndicatorsEndpoint(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/indicators", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Indicators []string `json:"indicators"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Indicators) != 17 {
		t.Errorf("expected 17 indicators, got %d", len(resp.Indicators))
	}
}
