// Package bridge3d turns free-text bridge design requirements into a
// consistent design record, a 2D SVG elevation, and a 3D scene
// description. The pipeline is analyze → synthesize → geometry →
// {drawing, scene}; the geometry tree is the single source of truth
// for dimensions, so the two renderings can never disagree.
package bridge3d

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leohan123123/bridge-3D-AI1/analysis"
	"github.com/leohan123123/bridge-3D-AI1/design"
	"github.com/leohan123123/bridge-3D-AI1/drawing"
	"github.com/leohan123123/bridge-3D-AI1/geometry"
	"github.com/leohan123123/bridge-3D-AI1/llm"
	"github.com/leohan123123/bridge-3D-AI1/scene"
	"github.com/leohan123123/bridge-3D-AI1/store"
)

// Engine is the main entry point for the bridge design pipeline.
type Engine interface {
	// AnalyzeRequirements extracts structured requirements from free
	// text. Always returns an Analysis; a degraded one carries Failed
	// and Reason instead of real content.
	AnalyzeRequirements(ctx context.Context, text string, params map[string]string) (*Analysis, error)

	// GenerateDesign synthesizes a design from a prior analysis (by id)
	// or from raw requirement text. The returned design is persisted
	// unless it carries the analysis failure sentinel.
	GenerateDesign(ctx context.Context, req DesignRequest) (design.BridgeDesign, error)

	// GenerateDrawing renders the 2D SVG elevation for a stored design.
	GenerateDrawing(ctx context.Context, designID string) (*Drawing, error)

	// GenerateModel exports the 3D scene data for a stored design.
	GenerateModel(ctx context.Context, designID string) (*Model, error)

	// DesignHistory lists stored designs, newest first.
	DesignHistory(ctx context.Context, limit int) ([]store.DesignSummary, error)

	// GetDesign retrieves a stored design by id.
	GetDesign(ctx context.Context, designID string) (design.BridgeDesign, error)

	// GetAnalysis retrieves a stored analysis by id.
	GetAnalysis(ctx context.Context, analysisID string) (analysis.Result, error)

	// Close cleanly shuts down the engine.
	Close() error
}

// Analysis is a requirement extraction result together with the id it
// was stored under.
type Analysis struct {
	AnalysisID string          `json:"analysis_id"`
	Result     analysis.Result `json:"result"`
}

// DesignRequest drives design synthesis. Exactly one of AnalysisID or
// UserRequirements should be set; when both are present the stored
// analysis wins. Constraints always override extracted estimates.
type DesignRequest struct {
	AnalysisID       string             `json:"analysis_id,omitempty"`
	UserRequirements string             `json:"user_requirements,omitempty"`
	Constraints      design.Constraints `json:"design_constraints"`
}

// Drawing is the rendered 2D output for a design.
type Drawing struct {
	DrawingID  string `json:"drawing_id"`
	DesignID   string `json:"design_id"`
	SVGContent string `json:"svg_content"`
}

// Model is the exported 3D output for a design.
type Model struct {
	ModelID     string                 `json:"model_id"`
	DesignID    string                 `json:"design_id"`
	Format      string                 `json:"format"`
	Scene       scene.SceneDescription `json:"json_scene_description"`
	ThreeJSCode string                 `json:"threejs_code"`
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg      Config
	store    *store.Store
	analyzer *analysis.Analyzer
}

// New creates a new bridge design engine with the given configuration.
func New(cfg Config) (Engine, error) {
	providers := make([]llm.Provider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		p, err := llm.NewProvider(pc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		providers = append(providers, p)
	}
	return NewWithProviders(cfg, providers)
}

// NewWithProviders creates an engine over explicit providers, bypassing
// the factory. Used by tests and embedders that construct their own
// llm.Provider implementations.
func NewWithProviders(cfg Config, providers []llm.Provider) (Engine, error) {
	s, err := store.New(cfg.resolveDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	policy := analysis.DefaultPolicy()
	if cfg.AttemptTimeoutSec > 0 {
		policy.AttemptTimeout = time.Duration(cfg.AttemptTimeoutSec) * time.Second
	}
	if cfg.AttemptRetries > 0 {
		policy.MaxRetries = cfg.AttemptRetries
	}
	if cfg.CacheTTLSec > 0 {
		policy.CacheTTL = time.Duration(cfg.CacheTTLSec) * time.Second
	}
	if cfg.CacheSize > 0 {
		policy.CacheSize = cfg.CacheSize
	}

	return &engine{
		cfg:      cfg,
		store:    s,
		analyzer: analysis.New(providers, policy),
	}, nil
}

// AnalyzeRequirements runs the failover analyzer and stores the result.
func (e *engine) AnalyzeRequirements(ctx context.Context, text string, params map[string]string) (*Analysis, error) {
	if text == "" {
		return nil, ErrEmptyRequirements
	}

	res := e.analyzer.Analyze(ctx, text, params)
	id := uuid.NewString()

	fp := analysis.Fingerprint(text, params)
	if err := e.store.SaveAnalysis(ctx, id, fp, res); err != nil {
		// Persistence is best-effort for analyses: the caller still gets
		// the result, it just cannot be referenced by id later.
		slog.Warn("storing analysis failed", "analysis_id", id, "error", err)
	}

	return &Analysis{AnalysisID: id, Result: res}, nil
}

// GenerateDesign synthesizes (and persists) a design.
func (e *engine) GenerateDesign(ctx context.Context, req DesignRequest) (design.BridgeDesign, error) {
	var res analysis.Result
	var analysisID string

	switch {
	case req.AnalysisID != "":
		stored, err := e.store.GetAnalysis(ctx, req.AnalysisID)
		if errors.Is(err, store.ErrNotFound) {
			return design.BridgeDesign{}, ErrAnalysisNotFound
		}
		if err != nil {
			return design.BridgeDesign{}, err
		}
		res = stored
		analysisID = req.AnalysisID
	case req.UserRequirements != "":
		a, err := e.AnalyzeRequirements(ctx, req.UserRequirements, nil)
		if err != nil {
			return design.BridgeDesign{}, err
		}
		res = a.Result
		analysisID = a.AnalysisID
	default:
		return design.BridgeDesign{}, ErrEmptyRequirements
	}

	d := design.Synthesize(res, req.Constraints)
	d.AnalysisID = analysisID

	if d.Failed() {
		// Failure-flagged designs are returned but never persisted, so
		// the history contains only real designs.
		return d, nil
	}

	if err := e.store.SaveDesign(ctx, d); err != nil {
		return design.BridgeDesign{}, fmt.Errorf("persisting design: %w", err)
	}
	return d, nil
}

// GenerateDrawing renders the stored design's elevation view.
func (e *engine) GenerateDrawing(ctx context.Context, designID string) (*Drawing, error) {
	d, err := e.GetDesign(ctx, designID)
	if err != nil {
		return nil, err
	}

	tree := geometry.Build(d)
	drawingID, svg := drawing.Render(tree)

	slog.Info("drawing rendered", "design_id", designID, "drawing_id", drawingID)
	return &Drawing{DrawingID: drawingID, DesignID: designID, SVGContent: svg}, nil
}

// GenerateModel exports the stored design's 3D scene.
func (e *engine) GenerateModel(ctx context.Context, designID string) (*Model, error) {
	d, err := e.GetDesign(ctx, designID)
	if err != nil {
		return nil, err
	}

	tree := geometry.Build(d)
	modelID, desc, format := scene.Export(tree)
	code := scene.GenerateCode(desc)

	slog.Info("model exported", "design_id", designID, "model_id", modelID, "format", format)
	return &Model{
		ModelID:     modelID,
		DesignID:    designID,
		Format:      format,
		Scene:       desc,
		ThreeJSCode: code,
	}, nil
}

// DesignHistory lists stored designs.
func (e *engine) DesignHistory(ctx context.Context, limit int) ([]store.DesignSummary, error) {
	return e.store.ListDesigns(ctx, limit)
}

// GetDesign retrieves a stored design.
func (e *engine) GetDesign(ctx context.Context, designID string) (design.BridgeDesign, error) {
	d, err := e.store.GetDesign(ctx, designID)
	if errors.Is(err, store.ErrNotFound) {
		return design.BridgeDesign{}, ErrDesignNotFound
	}
	return d, err
}

// GetAnalysis retrieves a stored analysis.
func (e *engine) GetAnalysis(ctx context.Context, analysisID string) (analysis.Result, error) {
	res, err := e.store.GetAnalysis(ctx, analysisID)
	if errors.Is(err, store.ErrNotFound) {
		return analysis.Result{}, ErrAnalysisNotFound
	}
	return res, err
}

// Close shuts down the engine.
func (e *engine) Close() error {
	return e.store.Close()
}
