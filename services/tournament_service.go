package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/footylab/prediction-engine/brackets"
	"github.com/footylab/prediction-engine/models"
	"github.com/footylab/prediction-engine/repositories"
	"github.com/footylab/prediction-engine/storage"
)

// TournamentService orchestrates the progression engine over the snapshot
// store: every write loads the current snapshot, applies one engine operation
// to a clone, and saves it back under compare-and-swap. A failed validation
// therefore never touches persisted state.
type TournamentService interface {
	Create(ctx context.Context, tournamentID string) (*models.TournamentState, error)
	Snapshot(ctx context.Context, tournamentID string) (*models.TournamentState, error)
	// Import replaces the stored state with an externally supplied snapshot
	// after re-validating every structural invariant.
	Import(ctx context.Context, tournamentID string, state *models.TournamentState) (*models.TournamentState, error)
	SubmitResult(ctx context.Context, tournamentID string, ref models.MatchRef, scoreA, scoreB int, penaltyWinner string) (*models.TournamentState, error)
	AdvanceStage(ctx context.Context, tournamentID string, from models.Stage) (*models.TournamentState, error)
	GroupStandings(ctx context.Context, tournamentID, groupID string) ([]models.StandingRow, error)
	ThirdPlaceRanking(ctx context.Context, tournamentID string) ([]models.ThirdPlaceRow, error)
}

type tournamentService struct {
	repo     repositories.SnapshotRepository
	template *brackets.Template
	hub      *brackets.Hub
	archive  storage.Uploader // optional, nil disables archiving
	logger   *slog.Logger

	// One mutex per tournament: submissions may interleave, but bracket
	// generation must never run twice against different snapshots of the
	// same tournament.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTournamentService(
	repo repositories.SnapshotRepository,
	template *brackets.Template,
	hub *brackets.Hub,
	archive storage.Uploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		repo:     repo,
		template: template,
		hub:      hub,
		archive:  archive,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *tournamentService) lockFor(tournamentID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[tournamentID]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[tournamentID] = l
	return l
}

func (s *tournamentService) Create(ctx context.Context, tournamentID string) (*models.TournamentState, error) {
	state, err := brackets.NewState(tournamentID, s.template)
	if err != nil {
		return nil, err
	}
	snap := &repositories.TournamentSnapshot{TournamentID: tournamentID, State: state}
	if err := s.repo.Create(ctx, nil, snap); err != nil {
		if errors.Is(err, repositories.ErrSnapshotExists) {
			return nil, fmt.Errorf("%w: %s", ErrTournamentExists, tournamentID)
		}
		return nil, err
	}
	s.logger.Info("tournament created",
		slog.String("tournament_id", tournamentID),
		slog.String("phase", string(state.Phase)))
	return state, nil
}

func (s *tournamentService) Snapshot(ctx context.Context, tournamentID string) (*models.TournamentState, error) {
	snap, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return snap.State, nil
}

func (s *tournamentService) Import(ctx context.Context, tournamentID string, state *models.TournamentState) (*models.TournamentState, error) {
	// The snapshot arrives from outside the trust boundary; nothing in it is
	// taken at face value.
	if err := brackets.ValidateState(state); err != nil {
		return nil, err
	}
	state.ID = tournamentID

	lock := s.lockFor(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	snap.State = state
	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}
	s.publish(ctx, state, brackets.EventStateImported, nil)
	return state, nil
}

func (s *tournamentService) SubmitResult(ctx context.Context, tournamentID string, ref models.MatchRef, scoreA, scoreB int, penaltyWinner string) (*models.TournamentState, error) {
	lock := s.lockFor(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	next, err := snap.State.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone tournament state %s: %w", tournamentID, err)
	}
	if err := brackets.SubmitResult(next, ref, scoreA, scoreB, penaltyWinner); err != nil {
		return nil, err
	}

	snap.State = next
	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}

	match, _ := next.FindMatch(ref)
	s.publish(ctx, next, brackets.EventResultRecorded, match)
	if next.Phase == models.PhaseComplete {
		s.publish(ctx, next, brackets.EventChampion, next.Champion)
		s.archiveSnapshot(ctx, snap, "final")
	}
	return next, nil
}

func (s *tournamentService) AdvanceStage(ctx context.Context, tournamentID string, from models.Stage) (*models.TournamentState, error) {
	lock := s.lockFor(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	next, err := snap.State.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone tournament state %s: %w", tournamentID, err)
	}
	if err := brackets.AdvanceStage(next, from, s.template.Seeding); err != nil {
		return nil, err
	}

	snap.State = next
	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}
	s.logger.Info("stage advanced",
		slog.String("tournament_id", tournamentID),
		slog.String("from", string(from)),
		slog.String("phase", string(next.Phase)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.publish(gctx, next, brackets.EventStageAdvanced, string(from))
		return nil
	})
	g.Go(func() error {
		s.archiveSnapshot(gctx, snap, string(from))
		return nil
	})
	_ = g.Wait()
	return next, nil
}

func (s *tournamentService) GroupStandings(ctx context.Context, tournamentID, groupID string) ([]models.StandingRow, error) {
	snap, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	group := snap.State.Group(groupID)
	if group == nil {
		return nil, fmt.Errorf("%w: %s", brackets.ErrUnknownGroup, groupID)
	}
	return brackets.GroupStandings(group), nil
}

func (s *tournamentService) ThirdPlaceRanking(ctx context.Context, tournamentID string) ([]models.ThirdPlaceRow, error) {
	snap, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.ThirdPlaceRanking(snap.State.Groups), nil
}

func (s *tournamentService) load(ctx context.Context, tournamentID string) (*repositories.TournamentSnapshot, error) {
	snap, err := s.repo.Get(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrSnapshotNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
		}
		return nil, err
	}
	return snap, nil
}

func (s *tournamentService) save(ctx context.Context, snap *repositories.TournamentSnapshot) error {
	if err := s.repo.Update(ctx, nil, snap); err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			return fmt.Errorf("%w: %s", ErrVersionConflict, snap.TournamentID)
		}
		return err
	}
	return nil
}

func (s *tournamentService) publish(ctx context.Context, state *models.TournamentState, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(roomID(state.ID), brackets.Event{
		Type:         eventType,
		TournamentID: state.ID,
		Payload:      payload,
	})
}

// archiveSnapshot uploads the snapshot JSON to the archive bucket. Archiving
// is best effort: a failure is logged, never surfaced to the submitter.
func (s *tournamentService) archiveSnapshot(ctx context.Context, snap *repositories.TournamentSnapshot, label string) {
	if s.archive == nil {
		return
	}
	raw, err := json.Marshal(snap.State)
	if err != nil {
		s.logger.Error("failed to marshal snapshot for archiving",
			slog.String("tournament_id", snap.TournamentID), slog.Any("error", err))
		return
	}
	key := fmt.Sprintf("tournaments/%s/%s-v%d.json", snap.TournamentID, label, snap.Version)
	if _, err := s.archive.Upload(ctx, key, "application/json", bytes.NewReader(raw)); err != nil {
		s.logger.Error("failed to archive snapshot",
			slog.String("tournament_id", snap.TournamentID),
			slog.String("key", key),
			slog.Any("error", err))
		return
	}
	s.logger.Info("snapshot archived",
		slog.String("tournament_id", snap.TournamentID),
		slog.String("key", key),
		slog.String("location", s.archive.PublicURL(key)))
}

// roomID matches the websocket handler's room naming.
func roomID(tournamentID string) string {
	return "tournament_" + tournamentID
}
