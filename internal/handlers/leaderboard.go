package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-contest-gateway/internal/cache"
	"github.com/pushp314/devconnect-contest-gateway/internal/config"
	"github.com/pushp314/devconnect-contest-gateway/internal/metrics"
	"github.com/pushp314/devconnect-contest-gateway/internal/models"
	"github.com/pushp314/devconnect-contest-gateway/internal/services"
	"github.com/pushp314/devconnect-contest-gateway/pkg/logger"
)

// LeaderboardView is the computed, cacheable leaderboard snapshot
type LeaderboardView struct {
	Title    string                  `json:"title"`
	Problems []models.Problem        `json:"problems"`
	Rows     []models.LeaderboardRow `json:"leaderboard"`
}

// GetContestLeaderboard handles GET /contests/:id/leaderboard
//
// Standings are fetched raw from upstream, ranked here, and cached as a
// snapshot for a few seconds so a page full of refreshing viewers does not
// hammer the judge. The optional ?sort= re-order is display-only and applied
// after the cache: it never changes the ranks stored in the snapshot.
func GetContestLeaderboard(c *gin.Context) {
	id := c.Param("id")
	token := tokenFromContext(c)

	cacheKey := "leaderboard:" + id
	var view LeaderboardView
	if err := cache.Get(cacheKey, &view); err == nil {
		metrics.CacheHits.Inc()
	} else {
		metrics.CacheMisses.Inc()

		payload, err := Upstream.GetLeaderboard(c.Request.Context(), token, id)
		if err != nil {
			respondError(c, err)
			return
		}

		view = LeaderboardView{
			Title:    payload.Title,
			Problems: payload.Problems,
			Rows:     services.BuildLeaderboard(payload.Problems, payload.Leaderboard),
		}

		ttl := time.Duration(config.AppConfig.LeaderboardCacheTTL) * time.Second
		if err := cache.Set(cacheKey, view, ttl); err != nil {
			logger.Warn().Err(err).Str("contest_id", id).Msg("Failed to cache leaderboard snapshot")
		}
	}

	rows := view.Rows
	if column := c.Query("sort"); column != "" {
		rows = services.SortRows(rows, column, c.Query("order") == "desc")
	}

	// Zero rows is "no participants yet", a perfectly valid leaderboard
	c.JSON(http.StatusOK, gin.H{
		"title":            view.Title,
		"problems":         view.Problems,
		"leaderboard":      rows,
		"participantCount": len(view.Rows),
	})
}
