// Package httpapi exposes the simulator over gin, grounded on
// fweilun-Ark's internal/http/handlers package: one handler struct per
// resource, a shared writeJSON/writeError pair, gin.Context throughout.
// A run is launched asynchronously and polled by id; the simulator
// itself has no notion of HTTP, so this package only ever talks to
// kernel.Simulator, reportstore.Store, config.Config, the synthetic
// feed and the random-walk strategy.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ridesim/config"
	"ridesim/feed"
	"ridesim/kernel"
	"ridesim/reportstore"
	"ridesim/roadnet"
	"ridesim/strategy"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// RunHandler wires the HTTP surface to a road map, a resource feed
// source and a report store. It holds no simulation state itself;
// every request builds a fresh Simulator.
type RunHandler struct {
	Map    *roadnet.InMemoryMap
	Oracle roadnet.Oracle
	Store  *reportstore.Store
}

func NewRunHandler(m *roadnet.InMemoryMap, oracle roadnet.Oracle, store *reportstore.Store) *RunHandler {
	return &RunHandler{Map: m, Oracle: oracle, Store: store}
}

// Register attaches the run endpoints to a gin router.
func (h *RunHandler) Register(r gin.IRouter) {
	r.POST("/runs", h.Create)
	r.GET("/runs/:id", h.Get)
}

type createRunReq struct {
	NumberOfAgents          int     `json:"number_of_agents"`
	AssignmentPeriod        float64 `json:"assignment_period"`
	ResourceMaximumLifeTime float64 `json:"resource_maximum_life_time"`
	Algorithm               string  `json:"algorithm"`
	Seed                    int64   `json:"seed"`
	LambdaPerSecond         float64 `json:"lambda_per_second"`
	Horizon                 float64 `json:"horizon"`
	MinFare                 float64 `json:"min_fare"`
	MaxFare                 float64 `json:"max_fare"`
}

// Create launches a synthetic-demand run in the background and returns
// its run id immediately; the caller polls Get for the outcome.
func (h *RunHandler) Create(c *gin.Context) {
	var req createRunReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	algo, ok := kernel.ParseAlgorithm(req.Algorithm)
	if !ok {
		writeError(c, http.StatusBadRequest, "algorithm must be \"fair\" or \"optimum\"")
		return
	}
	cfg := &config.Config{
		NumberOfAgents:          req.NumberOfAgents,
		AssignmentPeriod:        req.AssignmentPeriod,
		ResourceMaximumLifeTime: req.ResourceMaximumLifeTime,
		Algorithm:               algo,
		Seed:                    req.Seed,
		SpeedReductionFactor:    1.0,
		MapPath:                 "-",
	}
	if err := cfg.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.Store.Create(c.Request.Context(), algo, req.NumberOfAgents)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "could not create run")
		return
	}

	go h.run(context.Background(), id, cfg, req)

	writeJSON(c, http.StatusAccepted, map[string]any{"run_id": id, "status": "running"})
}

func (h *RunHandler) run(ctx context.Context, id uuid.UUID, cfg *config.Config, req createRunReq) {
	records := feed.Synthetic(h.Map, req.LambdaPerSecond, req.Horizon, req.MinFare, req.MaxFare, cfg.Seed)
	resources, err := feed.MapMatch(records, h.Map, h.Oracle, cfg.ResourceMaximumLifeTime)
	if err != nil {
		h.Store.Fail(ctx, id, err.Error())
		return
	}

	sim := kernel.NewSimulator(h.Map, h.Oracle, strategy.NewRandomWalk(cfg.Seed))
	if err := sim.Configure(kernel.Config{
		NumberOfAgents:   cfg.NumberOfAgents,
		AssignmentPeriod: cfg.AssignmentPeriod,
		Algorithm:        cfg.Algorithm,
		Seed:             cfg.Seed,
		Sink:             kernel.NoopSink{},
	}, resources); err != nil {
		h.Store.Fail(ctx, id, err.Error())
		return
	}

	score, err := sim.Run()
	if err != nil {
		h.Store.Fail(ctx, id, err.Error())
		return
	}
	if err := h.Store.Complete(ctx, id, score); err != nil {
		h.Store.Fail(ctx, id, err.Error())
	}
}

// Get returns a run's current status and, once finished, its report.
func (h *RunHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid run id")
		return
	}
	run, err := h.Store.Get(c.Request.Context(), id)
	if err == reportstore.ErrNotFound {
		writeError(c, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, run)
}

// NewRouter builds the gin engine with the run handler attached, in the
// teacher pack's convention of one top-level constructor per binary.
func NewRouter(h *RunHandler) *gin.Engine {
	r := gin.Default()
	h.Register(r.Group("/"))
	return r
}
