package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"evacuation/internal/history"
	"evacuation/internal/report"
	"evacuation/internal/scenario"
	"evacuation/internal/service"
	"evacuation/pkg/apperror"
	"evacuation/pkg/config"
	"evacuation/pkg/domain"
)

// Handler обработчики API
type Handler struct {
	base    *domain.Graph
	planner *service.Planner
	runner  *scenario.Runner
	repo    history.RunRepository // nil - история не настроена
}

// NewHandler создаёт обработчики. planner обслуживает запросы без тела
// (здание из конфигурации), для ad-hoc зданий планировщик собирается
// на запрос.
func NewHandler(base *domain.Graph, planner *service.Planner, runner *scenario.Runner, repo history.RunRepository) *Handler {
	return &Handler{
		base:    base,
		planner: planner,
		runner:  runner,
		repo:    repo,
	}
}

// planRequest тело запроса POST /api/v1/plan. Все поля опциональны:
// пустое тело означает здание и сценарии из конфигурации сервиса.
type planRequest struct {
	Building  *buildingPayload  `json:"building,omitempty"`
	Scenarios []scenarioPayload `json:"scenarios,omitempty"`
}

type buildingPayload struct {
	Name         string            `json:"name"`
	WalkingSpeed float64           `json:"walking_speed"`
	StairPenalty float64           `json:"stair_penalty"`
	Nodes        []nodePayload     `json:"nodes"`
	Corridors    []corridorPayload `json:"corridors"`
}

type nodePayload struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
}

type corridorPayload struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Capacity float64 `json:"capacity"`
	Length   float64 `json:"length"`
	Kind     string  `json:"kind,omitempty"`
}

type scenarioPayload struct {
	Name        string              `json:"name"`
	Disruptions []disruptionPayload `json:"disruptions,omitempty"`
}

type disruptionPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apperror.New(apperror.CodeInvalidArgument, "failed to read request body"))
		return
	}

	var req planRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, apperror.New(apperror.CodeInvalidArgument,
				fmt.Sprintf("invalid request body: %v", err)))
			return
		}
	}

	// Без тела - план по конфигурации сервиса с кэшем и историей
	if req.Building == nil && len(req.Scenarios) == 0 {
		plan, err := h.planner.Plan(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, plan)
		return
	}

	base := h.base
	if req.Building != nil {
		base, err = req.Building.toGraph()
		if err != nil {
			writeError(w, err)
			return
		}
	}

	scenarios := make([]domain.Scenario, 0, len(req.Scenarios))
	for _, sc := range req.Scenarios {
		s := domain.Scenario{Name: sc.Name}
		for _, d := range sc.Disruptions {
			s.Disruptions = append(s.Disruptions, domain.Disruption{From: d.From, To: d.To})
		}
		scenarios = append(scenarios, s)
	}

	// Ad-hoc запрос не кэшируется, но попадает в историю
	planner := service.NewPlanner(base, scenarios, h.runner, nil, h.repo)
	plan, err := planner.Plan(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// toGraph строит доменный граф из тела запроса через конфигурационный слой
func (b *buildingPayload) toGraph() (*domain.Graph, error) {
	cfg := config.BuildingConfig{
		Name:         b.Name,
		WalkingSpeed: b.WalkingSpeed,
		StairPenalty: b.StairPenalty,
	}
	if cfg.WalkingSpeed <= 0 {
		cfg.WalkingSpeed = domain.DefaultWalkingSpeed
	}
	if cfg.StairPenalty < 0 {
		return nil, apperror.New(apperror.CodeInvalidArgument,
			fmt.Sprintf("stair_penalty must be non-negative, got %g", b.StairPenalty))
	}
	for _, n := range b.Nodes {
		cfg.Nodes = append(cfg.Nodes, config.NodeConfig{ID: n.ID, Role: n.Role, Name: n.Name})
	}
	for _, c := range b.Corridors {
		cfg.Corridors = append(cfg.Corridors, config.CorridorConfig{
			From:     c.From,
			To:       c.To,
			Capacity: c.Capacity,
			Length:   c.Length,
			Kind:     c.Kind,
		})
	}

	g, err := cfg.ToGraph()
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeInvalidArgument, err.Error()).WithCause(err)
	}
	return g, nil
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	format := report.Format(r.PathValue("format"))

	opts := report.DefaultOptions()
	if title := r.URL.Query().Get("title"); title != "" {
		opts.Title = title
	}
	if v := r.URL.Query().Get("include_flows"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, apperror.New(apperror.CodeInvalidArgument,
				fmt.Sprintf("invalid include_flows value %q", v)))
			return
		}
		opts.IncludeFlows = include
	}

	plan, data, err := h.planner.PlanAndReport(r.Context(), format, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("evacuation-plan-%s.%s", plan.RunID, format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		return
	}
}

// formatInfo описание поддерживаемого формата отчёта
type formatInfo struct {
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Extension   string `json:"extension"`
}

func (h *Handler) handleFormats(w http.ResponseWriter, _ *http.Request) {
	formats := report.SupportedFormats()
	infos := make([]formatInfo, 0, len(formats))
	for _, f := range formats {
		infos = append(infos, formatInfo{
			Format:      string(f),
			ContentType: f.ContentType(),
			Extension:   f.Extension(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"formats": infos})
}

// runSummaryResponse краткая запись прогона в списке
type runSummaryResponse struct {
	ID            string    `json:"id"`
	Building      string    `json:"building"`
	ScenarioCount int       `json:"scenario_count"`
	BaselineFlow  float64   `json:"baseline_flow"`
	BaselineCost  float64   `json:"baseline_cost"`
	CreatedAt     time.Time `json:"created_at"`
}

// runResponse полная запись прогона с сохранённым планом
type runResponse struct {
	runSummaryResponse
	Plan json.RawMessage `json:"plan"`
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, apperror.New(apperror.CodeUnavailable, "run history is not configured"))
		return
	}

	opts := &history.ListOptions{Building: r.URL.Query().Get("building")}
	var err error
	if opts.Limit, err = intQuery(r, "limit"); err != nil {
		writeError(w, err)
		return
	}
	if opts.Offset, err = intQuery(r, "offset"); err != nil {
		writeError(w, err)
		return
	}

	runs, total, err := h.repo.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	summaries := make([]runSummaryResponse, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, runSummaryResponse{
			ID:            run.ID,
			Building:      run.Building,
			ScenarioCount: run.ScenarioCount,
			BaselineFlow:  run.BaselineFlow,
			BaselineCost:  run.BaselineCost,
			CreatedAt:     run.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  summaries,
		"total": total,
	})
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, apperror.New(apperror.CodeUnavailable, "run history is not configured"))
		return
	}

	id := r.PathValue("id")
	run, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrRunNotFound) {
			writeError(w, apperror.New(apperror.CodeNotFound,
				fmt.Sprintf("run %s not found", id)))
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		runSummaryResponse: runSummaryResponse{
			ID:            run.ID,
			Building:      run.Building,
			ScenarioCount: run.ScenarioCount,
			BaselineFlow:  run.BaselineFlow,
			BaselineCost:  run.BaselineCost,
			CreatedAt:     run.CreatedAt,
		},
		Plan: json.RawMessage(run.PlanData),
	})
}

func (h *Handler) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, apperror.New(apperror.CodeUnavailable, "run history is not configured"))
		return
	}

	id := r.PathValue("id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, history.ErrRunNotFound) {
			writeError(w, apperror.New(apperror.CodeNotFound,
				fmt.Sprintf("run %s not found", id)))
			return
		}
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// buildingStatsResponse агрегаты прогонов по зданию
type buildingStatsResponse struct {
	Building            string     `json:"building"`
	TotalRuns           int        `json:"total_runs"`
	AverageBaselineFlow float64    `json:"average_baseline_flow"`
	AverageBaselineCost float64    `json:"average_baseline_cost"`
	LastRunAt           *time.Time `json:"last_run_at,omitempty"`
}

func (h *Handler) handleBuildingStats(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, apperror.New(apperror.CodeUnavailable, "run history is not configured"))
		return
	}

	building := r.PathValue("building")
	stats, err := h.repo.GetBuildingStatistics(r.Context(), building)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildingStatsResponse{
		Building:            building,
		TotalRuns:           stats.TotalRuns,
		AverageBaselineFlow: stats.AverageBaselineFlow,
		AverageBaselineCost: stats.AverageBaselineCost,
		LastRunAt:           stats.LastRunAt,
	})
}

func intQuery(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperror.New(apperror.CodeInvalidArgument,
			fmt.Sprintf("invalid %s value %q", name, v))
	}
	return n, nil
}
