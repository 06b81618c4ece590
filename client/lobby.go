package client

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// LobbyRefresher periodically asks the event loop to refresh the game list.
// The tick only posts to the queue; the loop decides whether to send.
type LobbyRefresher struct {
	scheduler gocron.Scheduler
	logger    *zap.Logger
}

// NewLobbyRefresher schedules tick every interval. A zero interval returns a
// refresher that never fires.
func NewLobbyRefresher(interval time.Duration, tick func(), logger *zap.Logger) (*LobbyRefresher, error) {
	r := &LobbyRefresher{logger: logger}
	if interval <= 0 {
		return r, nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(tick),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule lobby refresh: %w", err)
	}

	r.scheduler = sched
	return r, nil
}

func (r *LobbyRefresher) Start() {
	if r.scheduler == nil {
		return
	}
	r.scheduler.Start()
	r.logger.Debug("lobby refresher started")
}

func (r *LobbyRefresher) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	return r.scheduler.Shutdown()
}
