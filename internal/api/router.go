package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/ingestion"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/query"
)

// Handlers wires the query engine and the syncer into HTTP endpoints.
type Handlers struct {
	engine *query.Engine
	syncer *ingestion.Syncer
	logger *log.Logger
}

// Options contains the components the API serves.
type Options struct {
	Engine *query.Engine
	Syncer *ingestion.Syncer
	Logger *log.Logger
}

// NewRouter builds the gin router with all endpoints registered.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	h := &Handlers{
		engine: opts.Engine,
		syncer: opts.Syncer,
		logger: logger,
	}

	r := gin.Default()

	r.GET("/health", h.health)

	r.GET("/depths", h.depthHistory)
	r.GET("/swaps", h.swapHistory)
	r.GET("/earnings", h.earningsHistory)
	r.GET("/runepool", h.runePoolHistory)

	r.GET("/depths/fetch-depths-all", h.backfill(domain.FamilyDepths))
	r.GET("/swaps/fetch-swaps-all", h.backfill(domain.FamilySwaps))
	r.GET("/earnings/fetch-earnings-all", h.backfill(domain.FamilyEarnings))
	r.GET("/runepool/fetch-rune-pools-all", h.backfill(domain.FamilyRunePool))

	return r
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"syncing": h.syncer.InFlight(),
	})
}

// queryParams parses the shared history query knobs. A malformed number
// aborts the request with a 400.
func queryParams(c *gin.Context) (query.Params, bool) {
	var p query.Params
	p.Pool = c.Query("pool")
	p.Interval = c.Query("interval")
	p.SortBy = c.Query("sortBy")

	ints := []struct {
		name string
		dst  *int64
	}{
		{"count", &p.Count},
		{"from", &p.From},
		{"to", &p.To},
		{"page", &p.Page},
		{"limit", &p.Limit},
	}
	for _, f := range ints {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parameter " + f.name + " must be an integer"})
			return p, false
		}
		*f.dst = v
	}

	if raw := c.Query("sortOrder"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parameter sortOrder must be an integer"})
			return p, false
		}
		p.SortOrder = v
	}

	return p, true
}

// respond maps engine errors onto status codes: invalid input is the
// caller's fault, everything else is ours.
func (h *Handlers) respond(c *gin.Context, payload any, err error) {
	if err != nil {
		if errors.Is(err, query.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Printf("Query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handlers) depthHistory(c *gin.Context) {
	p, ok := queryParams(c)
	if !ok {
		return
	}
	resp, err := h.engine.DepthHistory(c.Request.Context(), p)
	h.respond(c, resp, err)
}

func (h *Handlers) swapHistory(c *gin.Context) {
	p, ok := queryParams(c)
	if !ok {
		return
	}
	resp, err := h.engine.SwapHistory(c.Request.Context(), p)
	h.respond(c, resp, err)
}

func (h *Handlers) earningsHistory(c *gin.Context) {
	p, ok := queryParams(c)
	if !ok {
		return
	}
	resp, err := h.engine.EarningsHistory(c.Request.Context(), p)
	h.respond(c, resp, err)
}

func (h *Handlers) runePoolHistory(c *gin.Context) {
	p, ok := queryParams(c)
	if !ok {
		return
	}
	resp, err := h.engine.RunePoolHistory(c.Request.Context(), p)
	h.respond(c, resp, err)
}

// backfill triggers the full catch-up loop for one family and reports
// its stats. A family already syncing answers 409.
func (h *Handlers) backfill(family domain.Family) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h.syncer.Backfill(c.Request.Context(), family)
		if err != nil {
			if errors.Is(err, ingestion.ErrSyncInFlight) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			h.logger.Printf("Backfill %s failed: %v", family, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
