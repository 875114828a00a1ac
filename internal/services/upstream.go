package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pushp314/devconnect-contest-gateway/internal/metrics"
	"github.com/pushp314/devconnect-contest-gateway/internal/models"
	apperrors "github.com/pushp314/devconnect-contest-gateway/pkg/errors"
	"github.com/pushp314/devconnect-contest-gateway/pkg/logger"
)

// UpstreamClient talks to the judge backend over its fixed REST contract.
// The gateway forwards the acting user's bearer token verbatim; it never holds
// credentials of its own. No automatic retries anywhere: registration is an
// at-most-once action per click, and reads are re-polled by the views anyway.
type UpstreamClient struct {
	baseURL string
	client  *http.Client
}

func NewUpstreamClient(baseURL string, timeout time.Duration) *UpstreamClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UpstreamClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ContestDetail is the upstream response for a single contest view
type ContestDetail struct {
	Contest      models.Contest           `json:"contest"`
	IsRegistered bool                     `json:"isRegistered"`
	Status       string                   `json:"status"`
	UserStats    *models.UserContestStats `json:"userStats,omitempty"`
}

// LeaderboardPayload is the upstream response for a contest's raw standings
type LeaderboardPayload struct {
	Title       string            `json:"title"`
	Problems    []models.Problem  `json:"problems"`
	Leaderboard []models.RawEntry `json:"leaderboard"`
}

type upstreamError struct {
	Missed  bool   `json:"missed"`
	Message string `json:"message"`
	Error_  string `json:"error"`
}

func (e upstreamError) text(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	if e.Error_ != "" {
		return e.Error_
	}
	return fallback
}

func (u *UpstreamClient) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// ListContests fetches the unfiltered contest collection (GET /contest).
// Bucketing into live/upcoming/past happens on our side.
func (u *UpstreamClient) ListContests(ctx context.Context, token string) ([]models.Contest, error) {
	req, err := u.newRequest(ctx, http.MethodGet, "/contest", token, nil)
	if err != nil {
		return nil, apperrors.NotFoundOrUnavailable("Failed to build contest list request")
	}

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("list_contests", "error").Inc()
		return nil, apperrors.NotFoundOrUnavailable("Contest service unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues("list_contests", "error").Inc()
		return nil, apperrors.NotFoundOrUnavailable(fmt.Sprintf("Contest list failed with status %d", resp.StatusCode))
	}

	var contests []models.Contest
	if err := json.NewDecoder(resp.Body).Decode(&contests); err != nil {
		metrics.UpstreamRequests.WithLabelValues("list_contests", "error").Inc()
		return nil, apperrors.DataError("Malformed contest list from upstream")
	}

	metrics.UpstreamRequests.WithLabelValues("list_contests", "ok").Inc()
	logger.Debug().Dur("latency", time.Since(start)).Int("count", len(contests)).Msg("Fetched contest list")
	return contests, nil
}

// GetContest fetches one contest with the viewer's registration state and
// sparse stats (GET /contest/{id}). A non-2xx body carrying {"missed": true}
// is the dedicated missed-window terminal state, not a generic failure.
func (u *UpstreamClient) GetContest(ctx context.Context, token, contestID string) (*ContestDetail, error) {
	req, err := u.newRequest(ctx, http.MethodGet, "/contest/"+contestID, token, nil)
	if err != nil {
		return nil, apperrors.NotFoundOrUnavailable("Failed to build contest request")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("get_contest", "error").Inc()
		return nil, apperrors.NotFoundOrUnavailable("Contest service unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body upstreamError
		_ = json.NewDecoder(resp.Body).Decode(&body)

		if body.Missed {
			metrics.UpstreamRequests.WithLabelValues("get_contest", "missed").Inc()
			return nil, apperrors.MissedWindow(body.text("Registration window for this contest has passed"))
		}
		metrics.UpstreamRequests.WithLabelValues("get_contest", "error").Inc()
		return nil, apperrors.NotFoundOrUnavailable(body.text("Contest not found"))
	}

	var detail ContestDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		metrics.UpstreamRequests.WithLabelValues("get_contest", "error").Inc()
		return nil, apperrors.DataError("Malformed contest from upstream")
	}

	metrics.UpstreamRequests.WithLabelValues("get_contest", "ok").Inc()
	return &detail, nil
}

// Register performs the idempotent registration call
// (POST /contest/{id}/register) and returns the upstream message.
func (u *UpstreamClient) Register(ctx context.Context, token, contestID string) (string, error) {
	req, err := u.newRequest(ctx, http.MethodPost, "/contest/"+contestID+"/register", token, struct{}{})
	if err != nil {
		return "", apperrors.RegistrationFailed("Failed to build registration request")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("register", "error").Inc()
		return "", apperrors.RegistrationFailed("Registration request failed")
	}
	defer resp.Body.Close()

	var body upstreamError
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequests.WithLabelValues("register", "error").Inc()
		return "", apperrors.RegistrationFailed(body.text("Registration failed"))
	}

	metrics.UpstreamRequests.WithLabelValues("register", "ok").Inc()
	return body.text("Registered successfully"), nil
}

// GetLeaderboard fetches raw standings (GET /contest/{id}/leaderboard).
// An empty leaderboard array is a valid response, not an error.
func (u *UpstreamClient) GetLeaderboard(ctx context.Context, token, contestID string) (*LeaderboardPayload, error) {
	req, err := u.newRequest(ctx, http.MethodGet, "/contest/"+contestID+"/leaderboard", token, nil)
	if err != nil {
		return nil, apperrors.LeaderboardUnavailable("Failed to build leaderboard request")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("leaderboard", "error").Inc()
		return nil, apperrors.LeaderboardUnavailable("Leaderboard service unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues("leaderboard", "error").Inc()
		return nil, apperrors.LeaderboardUnavailable(fmt.Sprintf("Leaderboard fetch failed with status %d", resp.StatusCode))
	}

	var payload LeaderboardPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.UpstreamRequests.WithLabelValues("leaderboard", "error").Inc()
		return nil, apperrors.LeaderboardUnavailable("Malformed leaderboard from upstream")
	}

	metrics.UpstreamRequests.WithLabelValues("leaderboard", "ok").Inc()
	return &payload, nil
}
