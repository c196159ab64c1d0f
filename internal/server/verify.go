package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/factsift/factsift/internal/credibility"
	"github.com/factsift/factsift/internal/store"
)

// VerifyHandler exposes the credibility engine over HTTP.
type VerifyHandler struct {
	Engine *credibility.Engine
	Store  *store.Store
	Logger *log.Logger
}

// Register mounts the verification routes on the API group.
func (h *VerifyHandler) Register(g *echo.Group) {
	g.POST("/verify", h.verify)
	g.POST("/analyze", h.analyze)
	g.GET("/verifications", h.recent)
}

func (h *VerifyHandler) verify(c echo.Context) error {
	var req struct {
		Topic               string  `json:"topic"`
		SimilarityThreshold float64 `json:"similarity_threshold"`
		DaysBack            int     `json:"days_back"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic required")
	}
	if req.SimilarityThreshold < 0 || req.SimilarityThreshold > 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "similarity_threshold must be in [0,1]")
	}

	result := h.Engine.VerifyTopic(c.Request().Context(), req.Topic, credibility.VerifyOptions{
		SimilarityThreshold: req.SimilarityThreshold,
		DaysBack:            req.DaysBack,
	})

	if result.Status == credibility.StatusSuccess {
		h.record(c, req.Topic, "verify_topic", req.SimilarityThreshold, result.CombinedScore, result.Assessment, result)
	}

	// Engine failures are part of the response contract: a tagged record,
	// never an HTTP-level error.
	return c.JSON(http.StatusOK, result)
}

func (h *VerifyHandler) analyze(c echo.Context) error {
	var req struct {
		Text  string `json:"text"`
		Topic string `json:"topic"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic required")
	}

	assessment := h.Engine.AnalyzeCredibility(c.Request().Context(), req.Text, req.Topic)

	if assessment.Status == credibility.StatusSuccess {
		h.record(c, req.Topic, "analyze_credibility", 0, assessment.CredibilityScore, assessment.Assessment, assessment)
	}

	return c.JSON(http.StatusOK, assessment)
}

func (h *VerifyHandler) recent(c echo.Context) error {
	if h.Store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "verification history not configured")
	}
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 200 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be in 1..200")
		}
		limit = n
	}
	records, err := h.Store.RecentVerifications(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if records == nil {
		records = []store.VerificationRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

// record persists a verification outcome. History is best effort; a write
// failure never fails the request.
func (h *VerifyHandler) record(c echo.Context, topic, strategy string, threshold, score float64, assessment string, result interface{}) {
	if h.Store == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		h.Logger.Printf("marshal verification record: %v", err)
		return
	}
	if _, err := h.Store.SaveVerification(c.Request().Context(), store.VerificationRecord{
		Topic:         topic,
		Strategy:      strategy,
		Threshold:     threshold,
		CombinedScore: score,
		Assessment:    assessment,
		Result:        payload,
	}); err != nil {
		h.Logger.Printf("save verification record: %v", err)
	}
}
