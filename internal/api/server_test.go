package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ftl_checker/internal/compliance"
	"ftl_checker/internal/parsers/flightboard"
	"ftl_checker/internal/parsers/linefmt"
	"ftl_checker/internal/registry"
	"ftl_checker/pkg/logger"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	reg := registry.New()
	reg.RegisterFallback(&linefmt.Parser{})
	reg.Sort()

	engine := compliance.NewEngine(compliance.DefaultLimits())
	return NewServer(reg, engine, &flightboard.Parser{}, nil, nil, logger.Nop(), Config{Language: "en"})
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, testServer(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestHandleParse(t *testing.T) {
	s := testServer(t)

	roster := "Sat07 C/I VIE 1200\nOS 655 VIE 1314 1454 RMO A220\nC/O 2039 VIE"
	payload, _ := json.Marshal(map[string]string{"text": roster})

	rec := doJSON(t, s, http.MethodPost, "/api/v1/roster/parse", string(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp ParseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Format != "line_structured" {
		t.Errorf("Format = %s, want line_structured", resp.Format)
	}
	if resp.Result == nil || !resp.Result.Success || len(resp.Result.DutyPeriods) != 1 {
		t.Errorf("result = %+v", resp.Result)
	}
}

func TestHandleParseValidation(t *testing.T) {
	s := testServer(t)

	if rec := doJSON(t, s, http.MethodPost, "/api/v1/roster/parse", "{not json"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON: status = %d, want 400", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/roster/parse", "{}"); rec.Code != http.StatusBadRequest {
		t.Errorf("empty text: status = %d, want 400", rec.Code)
	}
}

func TestHandleFormats(t *testing.T) {
	rec := doJSON(t, testServer(t), http.MethodGet, "/api/v1/roster/formats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var formats []FormatInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &formats); err != nil {
		t.Fatal(err)
	}
	if len(formats) != 1 || formats[0].Name != "line_structured" || formats[0].Example == "" {
		t.Errorf("formats = %+v", formats)
	}
}

func TestHandleCheck(t *testing.T) {
	s := testServer(t)

	body := `{"duties": [
		{"date": "2026-08-07", "type": "FLIGHT", "report_time": "06:00", "off_duty_time": "19:30",
		 "flights": [{"flight_number": "OS655", "departure": "VIE", "departure_time": "07:00",
		              "arrival": "RMO", "arrival_time": "09:00"}]}
	]}`

	rec := doJSON(t, s, http.MethodPost, "/api/v1/compliance/check", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp CheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RunID != "" {
		t.Errorf("RunID = %q, want empty without a store", resp.RunID)
	}
	if resp.Report == nil || resp.Report.Summary.TotalDays != 1 {
		t.Fatalf("report = %+v", resp.Report)
	}
	// 13:30 duty against a 13:00 one-sector day ceiling needs the extension.
	if resp.Report.Results[0].Status != compliance.StatusWarning {
		t.Errorf("status = %s, want %s", resp.Report.Results[0].Status, compliance.StatusWarning)
	}
}

func TestHandleCheckValidation(t *testing.T) {
	s := testServer(t)

	// No duties and no crew_id (and no store to resolve one from).
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/compliance/check", "{}"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleStandby(t *testing.T) {
	s := testServer(t)

	body := `{"board_text": "OS 321  VIE  FRA  09:00  SCHEDULED", "window_start": "06:00", "window_end": "18:00"}`
	rec := doJSON(t, s, http.MethodPost, "/api/v1/standby/availability", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp StandbyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Availability.Total != 1 {
		t.Errorf("Total = %d, want 1: %+v", resp.Availability.Total, resp.Availability)
	}
	if resp.Availability.Candidates[0].LatestCallTime != "07:30" {
		t.Errorf("LatestCallTime = %s, want 07:30", resp.Availability.Candidates[0].LatestCallTime)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/standby/availability", `{"board_text": "x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing window: status = %d, want 400", rec.Code)
	}
}

func TestMinutesFrom(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"8:39", 519},
		{"13:00", 780},
		{"63:00", 3780},
		{"0:00", 0},
		{"N/A", -1},
		{"", -1},
		{":30", -1},
	}
	for _, tt := range tests {
		if got := minutesFrom(tt.in); got != tt.want {
			t.Errorf("minutesFrom(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
