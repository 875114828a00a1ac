package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-contest-gateway/internal/config"
	"github.com/pushp314/devconnect-contest-gateway/internal/middleware"
	"github.com/pushp314/devconnect-contest-gateway/internal/models"
	"github.com/pushp314/devconnect-contest-gateway/internal/services"
	"github.com/pushp314/devconnect-contest-gateway/pkg/logger"
	"github.com/pushp314/devconnect-contest-gateway/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	os.Exit(m.Run())
}

// setupGateway wires the handlers against a fake upstream judge and returns a
// router mirroring the /api/contests surface from main.go (rate limiting
// omitted).
func setupGateway(t *testing.T, upstream http.Handler) *gin.Engine {
	config.AppConfig = &config.Config{
		JWTSecret:           "test_secret_key_12345",
		LeaderboardCacheTTL: 10,
	}

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	Init(services.NewUpstreamClient(srv.URL, 5*time.Second), fixedClock{now: testNow})

	r := gin.New()
	contests := r.Group("/api/contests")
	contests.GET("", middleware.OptionalAuthMiddleware(), ListContests)
	contests.GET("/:id", middleware.OptionalAuthMiddleware(), GetContest)
	contests.GET("/:id/leaderboard", middleware.OptionalAuthMiddleware(), GetContestLeaderboard)
	contests.POST("/:id/register", middleware.AuthMiddleware(), RegisterForContest)
	return r
}

func performRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestListContestsBuckets(t *testing.T) {
	r := setupGateway(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]models.Contest{
			{ID: "live", StartTime: testNow.Add(-10 * time.Minute), DurationMinutes: 60},
			{ID: "upcoming", StartTime: testNow.Add(time.Hour), DurationMinutes: 60},
			{ID: "past", StartTime: testNow.Add(-2 * time.Hour), DurationMinutes: 30},
		})
	}))

	w := performRequest(r, "GET", "/api/contests", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=30")

	body := decodeBody(t, w)
	counts := body["counts"].(map[string]any)
	assert.Equal(t, float64(3), counts["all"])
	assert.Equal(t, float64(1), counts["live"])
	assert.Equal(t, float64(1), counts["upcoming"])
	assert.Equal(t, float64(1), counts["past"])

	contests := body["contests"].(map[string]any)
	live := contests["live"].([]any)
	require.Len(t, live, 1)
	assert.Equal(t, "live", live[0].(map[string]any)["id"])
}

func TestGetContestUpcoming(t *testing.T) {
	start := testNow.Add(3 * time.Hour)
	r := setupGateway(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(services.ContestDetail{
			Contest: models.Contest{
				ID: "c1", Title: "Weekly 1", StartTime: start, DurationMinutes: 90,
				Problems: []models.Problem{{ID: "p1"}, {ID: "p2"}},
			},
		})
	}))

	w := performRequest(r, "GET", "/api/contests/c1", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "UPCOMING", body["status"])
	assert.Equal(t, false, body["isRegistered"])
	assert.Equal(t, true, body["canRegister"])
	assert.Equal(t, false, body["showLeaderboard"])

	// Countdown runs toward the start
	target, err := time.Parse(time.RFC3339, body["countdownTarget"].(string))
	require.NoError(t, err)
	assert.True(t, target.Equal(start))
	remaining := body["remaining"].(map[string]any)
	assert.Equal(t, float64(3*time.Hour.Milliseconds()), remaining["totalMillis"])

	// Problems are hidden before the contest starts
	assert.NotContains(t, body, "problems")
}

func TestGetContestLiveRegistered(t *testing.T) {
	solveTime := int64(300000)
	r := setupGateway(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		problems := []models.Problem{{ID: "p1", Title: "Two Sum"}, {ID: "p2", Title: "LRU Cache"}}
		json.NewEncoder(w).Encode(services.ContestDetail{
			Contest: models.Contest{
				ID: "c1", StartTime: testNow.Add(-30 * time.Minute), DurationMinutes: 90,
				Problems: problems,
			},
			IsRegistered: true,
			UserStats: &models.UserContestStats{ProblemStats: []models.ProblemStat{
				{Problem: &problems[0], IsSolved: true, SolveTimeMillis: &solveTime},
			}},
		})
	}))

	w := performRequest(r, "GET", "/api/contests/c1", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "LIVE", body["status"])
	assert.Equal(t, true, body["isRegistered"])
	assert.Equal(t, false, body["canRegister"])

	// Countdown runs toward the end while live
	remaining := body["remaining"].(map[string]any)
	assert.Equal(t, float64(time.Hour.Milliseconds()), remaining["totalMillis"])

	// Full merged list: solved flag set from sparse stats, defaulting to false
	problems := body["problems"].([]any)
	require.Len(t, problems, 2)
	assert.Equal(t, true, problems[0].(map[string]any)["isSolved"])
	assert.Equal(t, false, problems[1].(map[string]any)["isSolved"])
}

func TestGetContestEndedShowsLeaderboard(t *testing.T) {
	r := setupGateway(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(services.ContestDetail{
			Contest: models.Contest{ID: "c1", StartTime: testNow.Add(-3 * time.Hour), DurationMinutes: 90},
		})
	}))

	w := performRequest(r, "GET", "/api/contests/c1", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "ENDED", body["status"])
	assert.Equal(t, false, body["canRegister"])
	assert.Equal(t, true, body["showLeaderboard"])
	assert.NotContains(t, body, "countdownTarget")
}

func TestGetContestMissedWindow(t *testing.T) {
	r := setupGateway(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusGone)
		json.NewEncoder(w).Encode(map[string]any{"missed": true, "message": "You missed this contest"})
	}))

	w := performRequest(r, "GET", "/api/contests/c1", "")
	require.Equal(t, http.StatusGone, w.Code)

	// Terminal state: the missed flag and nothing of the contest view
	body := decodeBody(t, w)
	assert.Equal(t, true, body["missed"])
	assert.Equal(t, "MISSED_WINDOW", body["kind"])
	assert.NotContains(t, body, "contest")
	assert.NotContains(t, body, "problems")
}

func TestGetContestBrokenScheduleIsBadGateway(t *testing.T) {
	r := setupGateway(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(services.ContestDetail{
			Contest: models.Contest{ID: "c1", StartTime: testNow.Add(time.Hour)}, // duration 0
		})
	}))

	w := performRequest(r, "GET", "/api/contests/c1", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "DATA_ERROR", decodeBody(t, w)["kind"])
}

func TestRegisterForContestRequiresAuth(t *testing.T) {
	r := setupGateway(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("anonymous request must not reach upstream")
	}))

	w := performRequest(r, "POST", "/api/contests/c1/register", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["redirectToLogin"])
}

func TestRegisterForContest(t *testing.T) {
	registered := false
	r := setupGateway(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch {
		case req.Method == http.MethodPost:
			registered = true
			json.NewEncoder(w).Encode(map[string]any{"message": "Registered successfully"})
		default:
			json.NewEncoder(w).Encode(services.ContestDetail{
				Contest:      models.Contest{ID: "c1", StartTime: testNow.Add(time.Hour), DurationMinutes: 90},
				IsRegistered: registered,
			})
		}
	}))

	token, err := utils.GenerateToken("user-1")
	require.NoError(t, err)

	w := performRequest(r, "POST", "/api/contests/c1/register", token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Registered successfully", body["message"])
	assert.Equal(t, false, body["alreadyRegistered"])

	// Second click reports success without another upstream write
	w = performRequest(r, "POST", "/api/contests/c1/register", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["alreadyRegistered"])
}

func TestRegisterForContestClosed(t *testing.T) {
	r := setupGateway(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, http.MethodGet, req.Method)
		json.NewEncoder(w).Encode(services.ContestDetail{
			Contest: models.Contest{ID: "c1", StartTime: testNow.Add(-10 * time.Minute), DurationMinutes: 90},
		})
	}))

	token, err := utils.GenerateToken("user-1")
	require.NoError(t, err)

	w := performRequest(r, "POST", "/api/contests/c1/register", token)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "CONTEST_NOT_JOINABLE", decodeBody(t, w)["kind"])
}
