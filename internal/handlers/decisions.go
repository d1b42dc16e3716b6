package handlers

import (
	"net/http"
	"strconv"

	"diamond-dashboard/server/internal/models"
	"diamond-dashboard/server/internal/tracing"

	"github.com/gin-gonic/gin"
)

const (
	defaultDecisionLimit = 50
	maxDecisionLimit     = 500
)

// ListGuardDecisionsHandler returns recent route guard decisions, newest
// first. Accepts optional query parameter 'limit' (default 50, clamped to
// [1, 500]).
func ListGuardDecisionsHandler(decisions *models.DecisionLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), "handlers.ListGuardDecisionsHandler")
		defer span.End()

		limit := defaultDecisionLimit
		if s := c.Query("limit"); s != "" {
			if v, err := strconv.Atoi(s); err == nil {
				limit = v
			}
		}
		limit = min(max(limit, 1), maxDecisionLimit)

		out, err := decisions.ListRecentDecisions(ctx, limit)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"decisions": out, "limit": limit})
	}
}

func GetGuardDecisionHandler(decisions *models.DecisionLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		d, err := decisions.GetDecision(c.Request.Context(), id)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}
