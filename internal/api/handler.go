package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-saferoute/internal/advisor"
	"github.com/mr1hm/go-saferoute/internal/broadcast"
	"github.com/mr1hm/go-saferoute/internal/geography"
	"github.com/mr1hm/go-saferoute/internal/logging"
	"github.com/mr1hm/go-saferoute/internal/metrics"
	"github.com/mr1hm/go-saferoute/internal/planner"
	"github.com/mr1hm/go-saferoute/internal/repository"
)

const invalidRouteMessage = "Invalid source, destination, or budget provided."

// UsageRecorder takes search-count bumps off the request path.
type UsageRecorder interface {
	Record(ids ...int64)
}

type Handler struct {
	planner     *planner.Planner
	catalog     repository.DestinationRepository
	advisor     *advisor.Advisor
	usage       UsageRecorder
	broadcaster *broadcast.Broadcaster
}

// NewHandler wires the HTTP surface. advisor, usage and broadcaster may be
// nil: advice falls back to fixed texts, search counts from routes are not
// recorded and the live feed answers 503.
func NewHandler(p *planner.Planner, catalog repository.DestinationRepository, adv *advisor.Advisor, usage UsageRecorder, broadcaster *broadcast.Broadcaster) *Handler {
	if adv == nil {
		adv = advisor.New(nil)
	}
	return &Handler{
		planner:     p,
		catalog:     catalog,
		advisor:     adv,
		usage:       usage,
		broadcaster: broadcaster,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.POST("/generate-route", h.generateRoute)
	api.GET("/search-destinations", h.searchDestinations)
	api.POST("/increment-search-count/:id", h.incrementSearchCount)
	api.GET("/districts", h.districts)
	api.POST("/chat", h.chat)
	api.GET("/tip", h.tip)
	api.POST("/tip", h.tip)
	api.GET("/hazards/stream", h.streamHazards)
}

type routeRequest struct {
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Interest    string          `json:"interest"`
	Budget      json.RawMessage `json:"budget"`
}

// parseBudget accepts a JSON integer or a string holding one.
func parseBudget(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errors.New("budget is required")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.Atoi(strings.TrimSpace(s))
	}

	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func (h *Handler) generateRoute(c *gin.Context) {
	var body routeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.RouteRequestsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, routeResponse{Message: invalidRouteMessage})
		return
	}

	budget, err := parseBudget(body.Budget)
	if err != nil {
		metrics.RouteRequestsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, routeResponse{Message: invalidRouteMessage})
		return
	}

	ctx := c.Request.Context()
	result, err := h.planner.BuildRoute(ctx, planner.RouteRequest{
		Source:      body.Source,
		Destination: body.Destination,
		Interest:    body.Interest,
		Budget:      budget,
	})
	switch {
	case errors.Is(err, geography.ErrInvalidDistrict), errors.Is(err, planner.ErrInvalidBudget):
		metrics.RouteRequestsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, routeResponse{Message: invalidRouteMessage})
		return
	case err != nil:
		metrics.RouteRequestsTotal.WithLabelValues("error").Inc()
		slog.Error("route generation failed", "request_id", logging.RequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, routeResponse{Message: "Server error."})
		return
	}

	if !result.Success {
		metrics.RouteRequestsTotal.WithLabelValues("no_stops").Inc()
		c.JSON(http.StatusOK, routeResponse{Message: result.Message})
		return
	}

	route := result.Route
	if h.usage != nil {
		ids := make([]int64, 0, len(route.Stops))
		for _, s := range route.Stops {
			ids = append(ids, s.ID)
		}
		h.usage.Record(ids...)
	}

	scorer := h.planner.Scorer()
	prediction := h.advisor.Predict(ctx, h.planner.Hazards(), route.Destination, scorer.Now(), scorer.Lookback)

	resp := toRouteBody(route)
	resp.Prediction = &prediction

	metrics.RouteRequestsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, routeResponse{Success: true, Route: resp})
}

func (h *Handler) searchDestinations(c *gin.Context) {
	filter := repository.Filter{
		Query: strings.TrimSpace(c.Query("q")),
	}

	dests, err := h.catalog.ListDestinations(c.Request.Context(), filter)
	if err != nil {
		slog.Error("destination search failed", "request_id", logging.RequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch destinations",
		})
		return
	}

	hazards := h.planner.Hazards()
	scorer := h.planner.Scorer()

	results := make([]destinationBody, 0, len(dests))
	for _, d := range dests {
		results = append(results, toDestinationBody(d, scorer.Score(hazards, d.District, d.Place)))
	}

	c.JSON(http.StatusOK, results)
}

func (h *Handler) incrementSearchCount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid destination id."})
		return
	}

	n, err := h.catalog.IncrementSearchCount(c.Request.Context(), id)
	if err != nil {
		slog.Error("increment search count failed", "request_id", logging.RequestID(c), "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error."})
		return
	}
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Destination not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Count incremented."})
}

func (h *Handler) districts(c *gin.Context) {
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, districtsGeoJSON(h.planner.Hazards(), h.planner.Scorer()))
}

func (h *Handler) chat(c *gin.Context) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No message provided."})
		return
	}

	reply, err := h.advisor.Chat(c.Request.Context(), body.Message)
	if errors.Is(err, advisor.ErrNotConfigured) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "AI assistant is not configured."})
		return
	}
	if err != nil {
		slog.Warn("chat failed", "request_id", logging.RequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "AI assistant connection error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reply": reply})
}

func (h *Handler) tip(c *gin.Context) {
	var body struct {
		Stops []string `json:"stops"`
	}
	if c.Request.Method == http.MethodPost {
		// A missing or malformed body just means no stops.
		_ = c.ShouldBindJSON(&body)
	}

	tip, source := h.advisor.Tip(c.Request.Context(), body.Stops)
	c.JSON(http.StatusOK, gin.H{"success": true, "tip": tip, "source": source})
}

// streamHazards relays newly logged hazard events as Server-Sent Events
// until the client goes away or the broadcaster closes.
func (h *Handler) streamHazards(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live feed unavailable"})
		return
	}

	id, events := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	slog.Debug("hazard feed subscriber connected", "subscriber", id, "request_id", logging.RequestID(c))

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("hazard", hazardFeature(ev))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	slog.Debug("hazard feed subscriber disconnected", "subscriber", id)
}

func (h *Handler) health(c *gin.Context) {
	hazards := h.planner.Hazards()
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"hazard_log":    hazards.Available(),
		"hazard_events": hazards.Len(),
		"advisor":       h.advisor.Enabled(),
	})
}
