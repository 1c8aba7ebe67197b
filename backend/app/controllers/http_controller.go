package controllers

import (
	"context"
	"net/http"
	"time"

	"store-rating/backend/app/dto"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type HTTPController struct{ DB *gorm.DB }

func NewHTTPController(db *gorm.DB) *HTTPController {
	return &HTTPController{DB: db}
}

// Health reports liveness and whether the database answers a ping.
func (c *HTTPController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	sqlDB, err := c.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health: database ping failed")
		writeJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "down"})
		return
	}
	writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up"})
}
