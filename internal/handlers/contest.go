package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-contest-gateway/internal/models"
	"github.com/pushp314/devconnect-contest-gateway/internal/services"
	apperrors "github.com/pushp314/devconnect-contest-gateway/pkg/errors"
	"github.com/pushp314/devconnect-contest-gateway/pkg/logger"
)

// Package-level collaborators, wired in main (tests swap in fakes)
var (
	Upstream      *services.UpstreamClient
	Clock         services.Clock = services.SystemClock
	Registrations *services.RegistrationService
)

// Init wires the handler package to its collaborators
func Init(upstream *services.UpstreamClient, clock services.Clock) {
	Upstream = upstream
	if clock != nil {
		Clock = clock
	}
	Registrations = services.NewRegistrationService(upstream)
}

func tokenFromContext(c *gin.Context) string {
	token, _ := c.Get("token")
	if token == nil {
		return ""
	}
	return token.(string)
}

// respondError maps the error taxonomy onto HTTP responses. MissedWindow and
// AuthenticationRequired carry extra flags so the frontend can render the
// dedicated terminal state / redirect instead of a generic error view.
func respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	body := gin.H{"error": err.Error(), "kind": kind}
	switch kind {
	case apperrors.KindMissedWindow:
		body["missed"] = true
	case apperrors.KindAuthRequired:
		body["redirectToLogin"] = true
	}
	c.JSON(apperrors.StatusOf(err), body)
}

// ContestDetailResponse is the computed contest view
type ContestDetailResponse struct {
	Contest         models.Contest          `json:"contest"`
	Status          models.ContestStatus    `json:"status"`
	IsRegistered    bool                    `json:"isRegistered"`
	CanRegister     bool                    `json:"canRegister"`
	CountdownTarget *time.Time              `json:"countdownTarget,omitempty"`
	Remaining       *services.Remaining     `json:"remaining,omitempty"`
	Problems        []models.DisplayProblem `json:"problems,omitempty"`
	ShowLeaderboard bool                    `json:"showLeaderboard"`
}

// ListContests handles GET /contests
func ListContests(c *gin.Context) {
	token := tokenFromContext(c)

	contests, err := Upstream.ListContests(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	buckets := services.BucketContests(contests, Clock.Now())

	c.Header("Cache-Control", "public, max-age=30")
	c.JSON(http.StatusOK, gin.H{
		"contests": buckets,
		"counts": gin.H{
			"all":      len(buckets.All),
			"live":     len(buckets.Live),
			"upcoming": len(buckets.Upcoming),
			"past":     len(buckets.Past),
		},
	})
}

// GetContest handles GET /contests/:id
func GetContest(c *gin.Context) {
	id := c.Param("id")
	token := tokenFromContext(c)

	detail, err := Upstream.GetContest(c.Request.Context(), token, id)
	if err != nil {
		respondError(c, err)
		return
	}

	now := Clock.Now()
	status, err := services.ClassifyStatus(detail.Contest.StartTime, detail.Contest.DurationMinutes, now)
	if err != nil {
		// Upstream sent a contest with a broken schedule; that is their
		// contract violation, not a 404
		respondError(c, err)
		return
	}

	response := ContestDetailResponse{
		Contest:         detail.Contest,
		Status:          status,
		IsRegistered:    detail.IsRegistered,
		CanRegister:     status == models.ContestStatusUpcoming && !detail.IsRegistered,
		ShowLeaderboard: status == models.ContestStatusEnded,
	}

	// Countdown target drives the client's ticking re-evaluation: toward the
	// start while Upcoming, toward the end while Live
	switch status {
	case models.ContestStatusUpcoming:
		target := detail.Contest.StartTime
		response.CountdownTarget = &target
	case models.ContestStatusLive:
		target := detail.Contest.EndTime()
		response.CountdownTarget = &target
	}
	if response.CountdownTarget != nil {
		remaining := services.RemainingUntil(*response.CountdownTarget, now)
		response.Remaining = &remaining
	}

	// The problem list is only shown to registered viewers once the contest
	// has started. Missing or partial stats still produce a full list with
	// isSolved defaulting to false.
	if detail.IsRegistered && status != models.ContestStatusUpcoming {
		var stats []models.ProblemStat
		if detail.UserStats != nil {
			stats = detail.UserStats.ProblemStats
		}
		response.Problems = services.MergeProblemStats(detail.Contest.Problems, stats)
		// Raw problem refs are superseded by the merged rows
		response.Contest.Problems = nil
	} else {
		response.Contest.Problems = nil
	}

	c.JSON(http.StatusOK, response)
}

// RegisterForContest handles POST /contests/:id/register
func RegisterForContest(c *gin.Context) {
	id := c.Param("id")
	userID, exists := c.Get("userId")
	token := tokenFromContext(c)
	if !exists || token == "" {
		respondError(c, apperrors.AuthenticationRequired("Please log in to register for this contest"))
		return
	}

	// Fresh fetch: the gate must decide on current state, not on whatever a
	// stale in-flight view response claimed
	detail, err := Upstream.GetContest(c.Request.Context(), token, id)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := Registrations.Register(c.Request.Context(), token, detail, Clock.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info().
		Str("contest_id", id).
		Str("user_id", userID.(string)).
		Bool("already_registered", result.AlreadyRegistered).
		Msg("Contest registration")

	c.JSON(http.StatusOK, gin.H{
		"message":           result.Message,
		"alreadyRegistered": result.AlreadyRegistered,
	})
}
