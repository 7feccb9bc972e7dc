package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/reelmatch/reelmatch-server-go/internal/repository"
)

// CleanupJob periodically deletes lobby sessions that were created but
// never started. Started sessions are kept as watch history input.
type CleanupJob struct {
	sessionRepo repository.SessionRepository
	lobbyTTL    time.Duration
	interval    time.Duration
	done        chan struct{}
}

func NewCleanupJob(sessionRepo repository.SessionRepository, lobbyTTL, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		sessionRepo: sessionRepo,
		lobbyTTL:    lobbyTTL,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("lobbyTtl", j.lobbyTTL).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.sessionRepo.DeleteAbandonedLobbies(ctx, j.lobbyTTL)
	if err != nil {
		log.Error().Err(err).Msg("failed to cleanup abandoned lobbies")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("cleaned up abandoned lobbies")
	}
}
