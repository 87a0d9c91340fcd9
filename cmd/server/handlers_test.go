//go:build cgo

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	bridge3d "github.com/leohan123123/bridge-3D-AI1"
	"github.com/leohan123123/bridge-3D-AI1/design"
	"github.com/leohan123123/bridge-3D-AI1/llm"
)

// stubProvider satisfies llm.Provider without any network traffic.
type stubProvider struct {
	name    string
	respond func(req llm.ChatRequest) (*llm.ChatResponse, error)
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	return s.respond(req)
}

const extractionJSON = `{
	"bridge_type_preference": "prestressed concrete continuous girder",
	"span_length_description": "100 meters total",
	"estimated_span_meters": 100,
	"load_requirements": "highway traffic",
	"site_terrain": "",
	"specific_materials": "prestressed concrete",
	"budget_constraints": "",
	"aesthetic_preferences": "",
	"environmental_factors": "seismic intensity zone 8",
	"road_lanes_description": "four lanes"
}`

func goodProvider() llm.Provider {
	return &stubProvider{
		name: "stub",
		respond: func(llm.ChatRequest) (*llm.ChatResponse, error) {
			return &llm.ChatResponse{Content: extractionJSON, FinishReason: "stop"}, nil
		},
	}
}

func downProvider(name string) llm.Provider {
	return &stubProvider{
		name: name,
		respond: func(llm.ChatRequest) (*llm.ChatResponse, error) {
			return nil, &llm.TransientError{Err: errors.New("503 service unavailable")}
		},
	}
}

// newTestServer wires the full handler stack (middleware included) over
// an engine backed by the given providers and a temp database.
func newTestServer(t *testing.T, apiKey string, providers ...llm.Provider) *httptest.Server {
	t.Helper()

	cfg := bridge3d.DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "test.db")
	cfg.AttemptRetries = 1

	engine, err := bridge3d.NewWithProviders(cfg, providers)
	if err != nil {
		t.Fatalf("creating engine: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	h := newHandler(engine)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/analyze_requirements", h.handleAnalyzeRequirements)
	mux.HandleFunc("POST /api/v1/generate_design", h.handleGenerateDesign)
	mux.HandleFunc("POST /api/v1/generate_2d_drawing", h.handleGenerateDrawing)
	mux.HandleFunc("POST /api/v1/generate_3d_model_data", h.handleGenerateModel)
	mux.HandleFunc("GET /api/v1/designs/history", h.handleDesignHistory)
	mux.HandleFunc("GET /api/v1/designs/{id}", h.handleGetDesign)
	mux.HandleFunc("GET /health", h.handleHealth)

	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = authMiddleware(apiKey, handler)
	handler = recoveryMiddleware(handler)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encoding request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response from %s: %v", url, err)
	}
	return resp, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response from %s: %v", url, err)
	}
	return resp, decoded
}

func TestEndToEndPipeline(t *testing.T) {
	srv := newTestServer(t, "", goodProvider())

	// Analyze.
	resp, body := postJSON(t, srv.URL+"/api/v1/analyze_requirements", map[string]interface{}{
		"user_requirements": "a 100-meter prestressed concrete continuous girder bridge, four lanes, seismic zone 8",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d, body %v", resp.StatusCode, body)
	}
	analysisID, _ := body["analysis_id"].(string)
	if analysisID == "" {
		t.Fatal("analyze response missing analysis_id")
	}
	if failed, _ := body["failed"].(bool); failed {
		t.Fatalf("analysis unexpectedly failed: %v", body["reason"])
	}

	// Design from the stored analysis, with an explicit span override.
	resp, body = postJSON(t, srv.URL+"/api/v1/generate_design", map[string]interface{}{
		"analysis_id": analysisID,
		"design_constraints": map[string]interface{}{
			"span_preference_meters": 100.0,
			"lane_count":             4,
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate_design status = %d, body %v", resp.StatusCode, body)
	}
	designID, _ := body["design_id"].(string)
	if designID == "" {
		t.Fatal("design response missing design_id")
	}
	bridgeType, _ := body["bridge_type"].(string)
	if !strings.Contains(bridgeType, "Prestressed Concrete") || !strings.Contains(bridgeType, "Continuous") {
		t.Errorf("bridge_type = %q", bridgeType)
	}
	spans, _ := body["span_lengths"].([]interface{})
	var total float64
	for _, s := range spans {
		total += s.(float64)
	}
	if total != 100 {
		t.Errorf("span_lengths sum to %v, want 100", total)
	}
	if width, _ := body["bridge_width"].(float64); width < 4*3.5 {
		t.Errorf("bridge_width = %v, too narrow for four lanes", width)
	}

	// Drawing: the SVG must carry the total span annotation.
	resp, body = postJSON(t, srv.URL+"/api/v1/generate_2d_drawing", map[string]interface{}{
		"design_id": designID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate_2d_drawing status = %d, body %v", resp.StatusCode, body)
	}
	svg, _ := body["svg_content"].(string)
	if !strings.Contains(svg, "100.0") {
		t.Error("svg does not mention the 100.0 m span")
	}
	if body["drawing_id"] == "" {
		t.Error("missing drawing_id")
	}

	// Model: scene deck length must match the same design.
	resp, body = postJSON(t, srv.URL+"/api/v1/generate_3d_model_data", map[string]interface{}{
		"design_id": designID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate_3d_model_data status = %d, body %v", resp.StatusCode, body)
	}
	if body["format"] != "three.js" {
		t.Errorf("format = %v", body["format"])
	}
	components, _ := body["components"].([]interface{})
	foundDeck := false
	for _, c := range components {
		if c == "deck" {
			foundDeck = true
		}
	}
	if !foundDeck {
		t.Errorf("components = %v, want a deck", components)
	}
	geom, _ := body["geometry_data"].(map[string]interface{})
	deck, _ := geom["deck"].(map[string]interface{})
	args, _ := deck["args"].([]interface{})
	if len(args) == 0 || args[0].(float64) != 100 {
		t.Errorf("deck geometry args = %v, want length 100", args)
	}
	code, _ := body["threejs_code"].(string)
	if !strings.Contains(code, "new THREE.BoxGeometry(") {
		t.Error("threejs_code missing deck geometry")
	}

	// History must list exactly the persisted design.
	resp, body = getJSON(t, srv.URL+"/api/v1/designs/history")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history status = %d", resp.StatusCode)
	}
	designs, _ := body["designs"].([]interface{})
	if len(designs) != 1 {
		t.Fatalf("history has %d designs, want 1", len(designs))
	}

	// Fetch by id.
	resp, body = getJSON(t, srv.URL+"/api/v1/designs/"+designID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get design status = %d", resp.StatusCode)
	}
	if body["design_id"] != designID {
		t.Errorf("fetched design_id = %v", body["design_id"])
	}
}

func TestGenerateDesignAllProvidersDown(t *testing.T) {
	srv := newTestServer(t, "", downProvider("first"), downProvider("second"))

	resp, body := postJSON(t, srv.URL+"/api/v1/generate_design", map[string]interface{}{
		"user_requirements": "a simple pedestrian bridge",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if body["error"] == nil || body["error"] == "" {
		t.Error("missing error field")
	}
	details, _ := body["details"].(map[string]interface{})
	if details["bridge_type"] != design.FailureBridgeType {
		t.Errorf("details.bridge_type = %v, want failure sentinel", details["bridge_type"])
	}
	girder, _ := details["main_girder"].(map[string]interface{})
	if reason, _ := girder["error"].(string); reason == "" {
		t.Error("details.main_girder.error is empty")
	}

	// A failed design must not enter history.
	resp, body = getJSON(t, srv.URL+"/api/v1/designs/history")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history status = %d", resp.StatusCode)
	}
	if designs, _ := body["designs"].([]interface{}); len(designs) != 0 {
		t.Errorf("history has %d designs, want 0", len(designs))
	}
}

func TestAnalyzeDegradedStillAnswers200(t *testing.T) {
	srv := newTestServer(t, "", downProvider("only"))

	resp, body := postJSON(t, srv.URL+"/api/v1/analyze_requirements", map[string]interface{}{
		"user_requirements": "a bridge",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 even for degraded analysis", resp.StatusCode)
	}
	if failed, _ := body["failed"].(bool); !failed {
		t.Error("expected failed=true with all providers down")
	}
	if body["provider"] != "none" {
		t.Errorf("provider = %v, want none", body["provider"])
	}
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t, "", goodProvider())

	// Malformed JSON.
	resp, err := http.Post(srv.URL+"/api/v1/generate_design", "application/json",
		strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed JSON status = %d, want 400", resp.StatusCode)
	}

	// Missing fields.
	r2, _ := postJSON(t, srv.URL+"/api/v1/generate_design", map[string]interface{}{})
	if r2.StatusCode != http.StatusBadRequest {
		t.Errorf("empty design request status = %d, want 400", r2.StatusCode)
	}
	r3, _ := postJSON(t, srv.URL+"/api/v1/analyze_requirements", map[string]interface{}{})
	if r3.StatusCode != http.StatusBadRequest {
		t.Errorf("empty analyze request status = %d, want 400", r3.StatusCode)
	}
	r4, _ := postJSON(t, srv.URL+"/api/v1/generate_2d_drawing", map[string]interface{}{})
	if r4.StatusCode != http.StatusBadRequest {
		t.Errorf("empty drawing request status = %d, want 400", r4.StatusCode)
	}
}

func TestNotFoundResponses(t *testing.T) {
	srv := newTestServer(t, "", goodProvider())

	r1, _ := postJSON(t, srv.URL+"/api/v1/generate_2d_drawing", map[string]interface{}{
		"design_id": "no-such-design",
	})
	if r1.StatusCode != http.StatusNotFound {
		t.Errorf("drawing for unknown design status = %d, want 404", r1.StatusCode)
	}

	r2, _ := postJSON(t, srv.URL+"/api/v1/generate_3d_model_data", map[string]interface{}{
		"design_id": "no-such-design",
	})
	if r2.StatusCode != http.StatusNotFound {
		t.Errorf("model for unknown design status = %d, want 404", r2.StatusCode)
	}

	r3, _ := postJSON(t, srv.URL+"/api/v1/generate_design", map[string]interface{}{
		"analysis_id": "no-such-analysis",
	})
	if r3.StatusCode != http.StatusNotFound {
		t.Errorf("design for unknown analysis status = %d, want 404", r3.StatusCode)
	}

	r4, _ := getJSON(t, srv.URL+"/api/v1/designs/no-such-design")
	if r4.StatusCode != http.StatusNotFound {
		t.Errorf("get unknown design status = %d, want 404", r4.StatusCode)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t, "secret-key", goodProvider())

	// Health is always open.
	resp, _ := getJSON(t, srv.URL+"/health")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}

	// API routes reject missing credentials.
	r2, _ := getJSON(t, srv.URL+"/api/v1/designs/history")
	if r2.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", r2.StatusCode)
	}

	// And accept the bearer token.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/designs/history", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	r3, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	r3.Body.Close()
	if r3.StatusCode != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", r3.StatusCode)
	}
}
