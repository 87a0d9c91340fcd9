package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	bridge3d "github.com/leohan123123/bridge-3D-AI1"
	"github.com/leohan123123/bridge-3D-AI1/store"
)

type handler struct {
	engine bridge3d.Engine
}

func newHandler(e bridge3d.Engine) *handler {
	return &handler{engine: e}
}

// POST /api/v1/analyze_requirements
//
// Always answers 200 for non-empty input: a degraded analysis is a
// valid result and the caller decides what to do with it.
func (h *handler) handleAnalyzeRequirements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		UserRequirements string            `json:"user_requirements"`
		Params           map[string]string `json:"params,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserRequirements == "" {
		writeError(w, http.StatusBadRequest, "user_requirements is required")
		return
	}

	a, err := h.engine.AnalyzeRequirements(ctx, req.UserRequirements, req.Params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analysis failed")
		slog.Error("analyze error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analysis_id":       a.AnalysisID,
		"user_requirements": req.UserRequirements,
		"requirements":      a.Result.Requirements,
		"provider":          a.Result.Provider,
		"from_cache":        a.Result.FromCache,
		"failed":            a.Result.Failed,
		"reason":            a.Result.Reason,
	})
}

// POST /api/v1/generate_design
//
// 200 with the design on success. When every provider is exhausted the
// synthesized record carries the failure sentinel; that case answers
// 500 with an error envelope whose details field holds the full record.
func (h *handler) handleGenerateDesign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req bridge3d.DesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.AnalysisID == "" && req.UserRequirements == "" {
		writeError(w, http.StatusBadRequest, "analysis_id or user_requirements is required")
		return
	}

	d, err := h.engine.GenerateDesign(ctx, req)
	if errors.Is(err, bridge3d.ErrAnalysisNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "design generation failed")
		slog.Error("generate design error", "error", err)
		return
	}

	if d.Failed() {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   "requirement analysis failed",
			"details": d,
		})
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// POST /api/v1/generate_2d_drawing
func (h *handler) handleGenerateDrawing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req struct {
		DesignID string `json:"design_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.DesignID == "" {
		writeError(w, http.StatusBadRequest, "design_id is required")
		return
	}

	dr, err := h.engine.GenerateDrawing(ctx, req.DesignID)
	if errors.Is(err, bridge3d.ErrDesignNotFound) {
		writeError(w, http.StatusNotFound, "design not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "drawing generation failed")
		slog.Error("generate drawing error", "design_id", req.DesignID, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"drawing_id":  dr.DrawingID,
		"design_id":   dr.DesignID,
		"svg_content": dr.SVGContent,
	})
}

// POST /api/v1/generate_3d_model_data
func (h *handler) handleGenerateModel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req struct {
		DesignID string `json:"design_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.DesignID == "" {
		writeError(w, http.StatusBadRequest, "design_id is required")
		return
	}

	m, err := h.engine.GenerateModel(ctx, req.DesignID)
	if errors.Is(err, bridge3d.ErrDesignNotFound) {
		writeError(w, http.StatusNotFound, "design not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "model generation failed")
		slog.Error("generate model error", "design_id", req.DesignID, "error", err)
		return
	}

	// Per-object convenience views alongside the full scene description.
	components := make([]string, 0, len(m.Scene.Objects))
	geometryData := make(map[string]interface{}, len(m.Scene.Objects))
	materialData := make(map[string]interface{}, len(m.Scene.Objects))
	for _, obj := range m.Scene.Objects {
		components = append(components, obj.Name)
		geometryData[obj.Name] = map[string]interface{}{
			"type":     obj.Geometry,
			"args":     obj.Args,
			"position": obj.Position,
		}
		materialData[obj.Name] = obj.Material
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"model_id":               m.ModelID,
		"design_id":              m.DesignID,
		"format":                 m.Format,
		"json_scene_description": m.Scene,
		"components":             components,
		"geometry_data":          geometryData,
		"material_data":          materialData,
		"threejs_code":           m.ThreeJSCode,
	})
}

// GET /api/v1/designs/history
func (h *handler) handleDesignHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	designs, err := h.engine.DesignHistory(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list designs")
		slog.Error("design history error", "error", err)
		return
	}
	if designs == nil {
		designs = []store.DesignSummary{} // keep JSON shape stable when history is empty
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"designs": designs,
	})
}

// GET /api/v1/designs/{id}
func (h *handler) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	d, err := h.engine.GetDesign(r.Context(), id)
	if errors.Is(err, bridge3d.ErrDesignNotFound) {
		writeError(w, http.StatusNotFound, "design not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load design")
		slog.Error("get design error", "design_id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
