package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/PresageLabs/PrediBench-sub000/internal/alerting"
	"github.com/PresageLabs/PrediBench-sub000/internal/fetcher"
	"github.com/PresageLabs/PrediBench-sub000/internal/market"
	"github.com/PresageLabs/PrediBench-sub000/internal/scheduler"
	"github.com/PresageLabs/PrediBench-sub000/internal/storage"
)

// Service runs the periodic capture loop: fetch the leaderboard and decision
// histories, archive them, and notify when the leaderboard leader changes.
// Derived analytics are never stored; only raw upstream data is archived.
type Service struct {
	scheduler   *scheduler.Scheduler
	leaderboard fetcher.LeaderboardFetcher
	decisions   fetcher.DecisionFetcher
	snapshots   storage.SnapshotStore
	archive     storage.DecisionArchive
	notifier    alerting.Notifier
	logger      zerolog.Logger
}

// New constructs the capture service. The notifier and stores may be nil;
// missing collaborators disable the corresponding step.
func New(sched *scheduler.Scheduler, leaderboard fetcher.LeaderboardFetcher, decisions fetcher.DecisionFetcher, snapshots storage.SnapshotStore, archive storage.DecisionArchive, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		scheduler:   sched,
		leaderboard: leaderboard,
		decisions:   decisions,
		snapshots:   snapshots,
		archive:     archive,
		notifier:    notifier,
		logger:      logger.With().Str("component", "service").Logger(),
	}
}

// Run begins the scheduled capture loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.CaptureSnapshot)
}

// CaptureSnapshot 执行单次榜单采集与归档。
func (s *Service) CaptureSnapshot(ctx context.Context, bucket time.Time) error {
	entries, err := s.leaderboard.Leaderboard(ctx)
	if err != nil {
		return fmt.Errorf("fetch leaderboard: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("leaderboard snapshot is empty")
	}

	sorted := make([]market.LeaderboardEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FinalProfit.GreaterThan(sorted[j].FinalProfit)
	})
	top := sorted[0]

	var previousLeader string
	if s.snapshots != nil {
		if prev, ok, err := s.snapshots.LatestSnapshot(ctx); err != nil {
			s.logger.Error().Err(err).Msg("failed to load previous snapshot")
		} else if ok {
			previousLeader = prev.TopModelID
		}

		payload, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshal leaderboard: %w", err)
		}
		snapshot := storage.Snapshot{
			TakenAt:    bucket,
			ModelCount: len(entries),
			TopModelID: top.ModelID,
			TopProfit:  top.FinalProfit,
			Payload:    payload,
		}
		if _, err := s.snapshots.InsertSnapshot(ctx, snapshot); err != nil {
			s.logger.Error().Err(err).Time("bucket", bucket).Msg("failed to store snapshot")
		}
	}

	if s.archive != nil && s.decisions != nil {
		s.archiveDecisions(ctx, entries)
	}

	s.logger.Info().Time("bucket", bucket).
		Int("models", len(entries)).
		Str("leader", top.ModelID).
		Msg("snapshot captured")

	if s.notifier != nil && previousLeader != "" && previousLeader != top.ModelID {
		change := alerting.LeaderChange{
			TakenAt:        bucket,
			PreviousLeader: previousLeader,
			NewLeader:      top.ModelID,
			NewProfit:      top.FinalProfit,
			ModelCount:     len(entries),
		}
		if err := s.notifier.Notify(ctx, change); err != nil {
			s.logger.Error().Err(err).Time("bucket", bucket).Msg("failed to dispatch leader-change notification")
		}
	}

	return nil
}

func (s *Service) archiveDecisions(ctx context.Context, entries []market.LeaderboardEntry) {
	for _, entry := range entries {
		decisions, err := s.decisions.DecisionsByModel(ctx, entry.ModelID)
		if err != nil {
			s.logger.Error().Err(err).Str("model", entry.ModelID).Msg("failed to fetch decisions for archive")
			continue
		}
		for _, d := range decisions {
			payload, err := json.Marshal(d)
			if err != nil {
				s.logger.Error().Err(err).Str("model", d.ModelID).Msg("failed to marshal decision")
				continue
			}
			record := storage.DecisionRecord{
				ModelID:    d.ModelID,
				TargetDate: d.TargetDate,
				Payload:    payload,
			}
			if err := s.archive.UpsertDecision(ctx, record); err != nil {
				s.logger.Error().Err(err).Str("model", d.ModelID).Msg("failed to archive decision")
			}
		}
	}
}
