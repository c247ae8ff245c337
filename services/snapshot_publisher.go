package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/ladder-stats/live"
	"github.com/Dosada05/ladder-stats/models"
	"github.com/Dosada05/ladder-stats/repositories"
	"github.com/Dosada05/ladder-stats/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Broadcaster pushes a message to the subscribers of a room.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// SnapshotPublisher writes each competition's player list to object storage
// and notifies live subscribers.
type SnapshotPublisher struct {
	competitionRepo repositories.CompetitionRepository
	players         ActivePlayersReader
	uploader        storage.ObjectUploader
	broadcaster     Broadcaster
	maxStatus       models.GlobalStatus
	logger          *slog.Logger
	now             func() time.Time

	mu        sync.Mutex
	published map[int]string // competition id -> object key of its last upload
}

func NewSnapshotPublisher(
	competitionRepo repositories.CompetitionRepository,
	players ActivePlayersReader,
	uploader storage.ObjectUploader,
	broadcaster Broadcaster,
	maxStatus models.GlobalStatus,
	logger *slog.Logger,
) *SnapshotPublisher {
	return &SnapshotPublisher{
		competitionRepo: competitionRepo,
		players:         players,
		uploader:        uploader,
		broadcaster:     broadcaster,
		maxStatus:       maxStatus,
		logger:          defaultLogger(logger),
		now:             time.Now,
		published:       make(map[int]string),
	}
}

// SnapshotKey is the object key of a competition's standings document.
func SnapshotKey(c models.Competition) string {
	return fmt.Sprintf("standings/%d-%s.json", c.ID, c.Slug)
}

// PublishAll publishes every active competition and removes the snapshots of
// competitions that left the catalog. A failing competition does not stop the
// others; all failures are returned joined.
func (p *SnapshotPublisher) PublishAll(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "SnapshotPublisher.PublishAll")
	defer func() { endSpan(span, err) }()

	competitions, err := p.competitionRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list competitions for snapshot: %w", err)
	}

	var errs []error
	published := 0
	for _, c := range competitions {
		if _, pubErr := p.Publish(ctx, *c); pubErr != nil {
			p.logger.ErrorContext(ctx, "standings snapshot failed",
				slog.Int("competition_id", c.ID), slog.Any("error", pubErr))
			errs = append(errs, pubErr)
			continue
		}
		published++
	}
	errs = append(errs, p.removeRetired(ctx, competitions)...)

	p.logger.InfoContext(ctx, "standings snapshots published",
		slog.Int("published", published), slog.Int("failed", len(errs)))
	return errors.Join(errs...)
}

// Publish uploads the snapshot of one competition and broadcasts its location.
func (p *SnapshotPublisher) Publish(ctx context.Context, c models.Competition) (_ *models.StandingsSnapshot, err error) {
	ctx, span := tracer.Start(ctx, "SnapshotPublisher.Publish", trace.WithAttributes(
		attribute.Int("competition.id", c.ID),
	))
	defer func() { endSpan(span, err) }()

	players, err := p.players.ActivePlayers(ctx, c.ID, p.maxStatus)
	if err != nil {
		return nil, fmt.Errorf("competition %d: %w", c.ID, err)
	}
	if players == nil {
		players = []models.ActivePlayer{}
	}

	snapshot := &models.StandingsSnapshot{
		Competition: c,
		GeneratedAt: p.now().UTC(),
		Players:     players,
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("competition %d: failed to encode snapshot: %w", c.ID, err)
	}

	res, err := p.uploader.Upload(ctx, SnapshotKey(c), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("competition %d: %w", c.ID, err)
	}
	snapshot.URL = res.Location
	p.replaceKey(ctx, c.ID, res.Key)

	if p.broadcaster != nil {
		room := live.CompetitionRoom(c.ID)
		p.broadcaster.BroadcastToRoom(room, live.Message{
			Type:   live.MessageStandingsUpdated,
			RoomID: room,
			Payload: map[string]interface{}{
				"competition_id": c.ID,
				"url":            snapshot.URL,
				"generated_at":   snapshot.GeneratedAt,
				"players":        len(players),
			},
		})
	}
	return snapshot, nil
}

// replaceKey remembers key as the current snapshot of competitionID and deletes
// the previous object when the key changed (a renamed competition gets a new slug).
func (p *SnapshotPublisher) replaceKey(ctx context.Context, competitionID int, key string) {
	p.mu.Lock()
	old, ok := p.published[competitionID]
	p.published[competitionID] = key
	p.mu.Unlock()

	if !ok || old == key {
		return
	}
	if err := p.uploader.Delete(ctx, old); err != nil {
		p.logger.WarnContext(ctx, "failed to delete outdated standings snapshot",
			slog.Int("competition_id", competitionID), slog.String("key", old), slog.Any("error", err))
	}
}

// removeRetired deletes snapshots of competitions missing from active. Failed
// deletions stay tracked and are retried on the next run.
func (p *SnapshotPublisher) removeRetired(ctx context.Context, active []*models.Competition) []error {
	keep := make(map[int]struct{}, len(active))
	for _, c := range active {
		keep[c.ID] = struct{}{}
	}

	p.mu.Lock()
	retired := make(map[int]string)
	for id, key := range p.published {
		if _, ok := keep[id]; !ok {
			retired[id] = key
		}
	}
	p.mu.Unlock()

	var errs []error
	for id, key := range retired {
		if err := p.uploader.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("competition %d: failed to delete snapshot %s: %w", id, key, err))
			continue
		}
		p.mu.Lock()
		delete(p.published, id)
		p.mu.Unlock()
		p.logger.InfoContext(ctx, "standings snapshot removed",
			slog.Int("competition_id", id), slog.String("key", key))
	}
	return errs
}
