package integration

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/pushp314/devconnect-contest-gateway/internal/models"
	"github.com/pushp314/devconnect-contest-gateway/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContestFlow_e2e(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 1. Seed the fake judge: one upcoming, one finished, one missed contest
	judge := newFakeJudge()
	judge.addContest(models.Contest{
		ID: "weekly-42", Title: "Weekly Contest 42",
		StartTime: now.Add(time.Hour), DurationMinutes: 90,
		Problems: []models.Problem{{ID: "p1", Title: "Two Sum"}, {ID: "p2", Title: "LRU Cache"}},
	})
	judge.addContest(models.Contest{
		ID: "weekly-41", Title: "Weekly Contest 41",
		StartTime: now.Add(-4 * time.Hour), DurationMinutes: 90,
		Problems: []models.Problem{{ID: "p1"}},
	})
	judge.leaderboard["weekly-41"] = services.LeaderboardPayload{
		Title:    "Weekly Contest 41",
		Problems: []models.Problem{{ID: "p1"}},
		Leaderboard: []models.RawEntry{
			{User: models.UserRef{ID: "u1", Username: "alice"}, Score: 50},
			{User: models.UserRef{ID: "u2", Username: "bob"}, Score: 80},
		},
	}
	judge.missedIDs["weekly-40"] = true

	r := setupGateway(t, judge, now)

	// 2. List view buckets the collection
	w := performRequest(r, "GET", "/api/contests", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var listResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &listResp)
	counts := listResp["counts"].(map[string]interface{})
	assert.Equal(t, float64(2), counts["all"])
	assert.Equal(t, float64(1), counts["upcoming"])
	assert.Equal(t, float64(1), counts["past"])
	assert.Equal(t, float64(0), counts["live"])

	// 3. Anonymous registration is rejected at the edge
	w = performRequest(r, "POST", "/api/contests/weekly-42/register", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var authResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &authResp)
	assert.Equal(t, true, authResp["redirectToLogin"])

	// 4. Authenticated registration succeeds
	token := createTestToken(t, "user-1")
	w = performRequest(r, "POST", "/api/contests/weekly-42/register", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var regResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &regResp)
	assert.Equal(t, "Registered successfully", regResp["message"])
	assert.Equal(t, false, regResp["alreadyRegistered"])

	// 5. Registering again is an idempotent success
	w = performRequest(r, "POST", "/api/contests/weekly-42/register", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	json.Unmarshal(w.Body.Bytes(), &regResp)
	assert.Equal(t, true, regResp["alreadyRegistered"])

	// 6. The detail view now reflects the registration
	w = performRequest(r, "GET", "/api/contests/weekly-42", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var detailResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &detailResp)
	assert.Equal(t, "UPCOMING", detailResp["status"])
	assert.Equal(t, true, detailResp["isRegistered"])
	assert.Equal(t, false, detailResp["canRegister"])

	// 7. The finished contest serves a ranked leaderboard
	w = performRequest(r, "GET", "/api/contests/weekly-41/leaderboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var lbResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &lbResp)
	rows := lbResp["leaderboard"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["rank"])
	assert.Equal(t, "bob", first["user"].(map[string]interface{})["username"])

	// 8. A missed contest renders the dedicated terminal state
	w = performRequest(r, "GET", "/api/contests/weekly-40", nil, token)
	require.Equal(t, http.StatusGone, w.Code)

	var missedResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &missedResp)
	assert.Equal(t, true, missedResp["missed"])
}

func TestRegistrationClosesOnceLive_e2e(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	judge := newFakeJudge()
	judge.addContest(models.Contest{
		ID: "weekly-43", Title: "Weekly Contest 43",
		StartTime: now.Add(-5 * time.Minute), DurationMinutes: 90,
	})

	r := setupGateway(t, judge, now)
	token := createTestToken(t, "user-2")

	// The gate decides on current state, regardless of what the client saw
	w := performRequest(r, "POST", "/api/contests/weekly-43/register", nil, token)
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "CONTEST_NOT_JOINABLE", resp["kind"])
}
