package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pushp314/devconnect-contest-gateway/internal/config"
	"github.com/pushp314/devconnect-contest-gateway/internal/models"
	"github.com/pushp314/devconnect-contest-gateway/internal/services"
	apperrors "github.com/pushp314/devconnect-contest-gateway/pkg/errors"
	"github.com/pushp314/devconnect-contest-gateway/pkg/logger"
)

// Terminal contest watcher: follows one contest through
// Upcoming -> Live -> Ended on the shared countdown scheduler, re-fetching at
// each boundary. CONTEST_TOKEN (optional) is forwarded upstream for the
// solved-flags view.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: watch <contest-id>")
		os.Exit(1)
	}
	contestID := os.Args[1]

	config.LoadConfig()
	logger.Init("development")

	token := os.Getenv("CONTEST_TOKEN")
	upstream := services.NewUpstreamClient(config.AppConfig.UpstreamURL, 10*time.Second)

	scheduler := services.NewCountdownScheduler(services.SystemClock)
	scheduler.Start()
	defer scheduler.Stop()

	w := &watcher{
		upstream:  upstream,
		scheduler: scheduler,
		token:     token,
		contestID: contestID,
		done:      make(chan struct{}),
	}
	w.refresh()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		fmt.Println("\nStopped watching")
	case <-w.done:
	}
}

type watcher struct {
	upstream  *services.UpstreamClient
	scheduler *services.CountdownScheduler
	token     string
	contestID string
	tracker   services.StatusTracker
	done      chan struct{}
}

// refresh re-fetches the contest and re-arms the countdown for the current
// phase. Called once at startup and again from every countdown boundary.
func (w *watcher) refresh() {
	detail, err := w.upstream.GetContest(context.Background(), w.token, w.contestID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindMissedWindow {
			fmt.Println("You missed this one: the registration window has passed.")
		} else {
			fmt.Printf("Failed to fetch contest: %v\n", err)
		}
		close(w.done)
		return
	}

	status, err := services.ClassifyStatus(detail.Contest.StartTime, detail.Contest.DurationMinutes, time.Now())
	if err != nil {
		fmt.Printf("Contest has a broken schedule: %v\n", err)
		close(w.done)
		return
	}
	status = w.tracker.Observe(status)

	switch status {
	case models.ContestStatusUpcoming:
		fmt.Printf("%s - starts %s\n", detail.Contest.Title, detail.Contest.StartTime.Local().Format(time.RFC1123))
		w.scheduler.Subscribe(detail.Contest.StartTime,
			func(r services.Remaining) { fmt.Printf("\rStarts in %s   ", r) },
			func() {
				fmt.Println("\nContest is live!")
				w.refresh()
			})

	case models.ContestStatusLive:
		fmt.Printf("%s - live now, %d problems\n", detail.Contest.Title, len(detail.Contest.Problems))
		w.scheduler.Subscribe(detail.Contest.EndTime(),
			func(r services.Remaining) { fmt.Printf("\rEnds in %s   ", r) },
			func() {
				fmt.Println("\nContest has ended.")
				w.refresh()
			})

	case models.ContestStatusEnded:
		fmt.Printf("%s - ended\n", detail.Contest.Title)
		w.printLeaderboard()
		close(w.done)
	}
}

func (w *watcher) printLeaderboard() {
	payload, err := w.upstream.GetLeaderboard(context.Background(), w.token, w.contestID)
	if err != nil {
		fmt.Printf("Leaderboard unavailable: %v\n", err)
		return
	}

	rows := services.BuildLeaderboard(payload.Problems, payload.Leaderboard)
	if len(rows) == 0 {
		fmt.Println("No participants.")
		return
	}

	fmt.Println("\nFinal standings:")
	for _, row := range rows {
		if row.Rank > 10 {
			break
		}
		solved := 0
		for _, cell := range row.Problems {
			if cell.IsSolved {
				solved++
			}
		}
		fmt.Printf("%3d. %-20s %6.0f pts  %d/%d solved\n",
			row.Rank, row.User.Username, row.Score, solved, len(row.Problems))
	}
}
