package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db     *sqlx.DB
	prober DaemonProber
}

// NewHealthHandler creates a new HealthHandler. The prober may be nil when
// the local daemon is not part of the configured chain.
func NewHealthHandler(db *sqlx.DB, prober DaemonProber) *HealthHandler {
	return &HealthHandler{db: db, prober: prober}
}

// Liveness handles GET /healthz
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. Ready means the database answers and, when
// the local daemon is in the chain, the daemon answers too. A down daemon is
// degraded rather than unready: the chain still has fallback backends.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}

	status := gin.H{"status": "ok"}
	if h.prober != nil {
		if err := h.prober.Ping(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["daemon"] = "unreachable"
		} else {
			status["daemon"] = "ok"
		}
	}
	c.JSON(http.StatusOK, status)
}
