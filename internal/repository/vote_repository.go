package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"community-feed-api/internal/domain"
)

// VoteRepository defines the interface for vote data access. Apply is the
// single mutation entry point; everything else is a read-time projection.
type VoteRepository interface {
	Apply(ctx context.Context, target domain.VoteTarget, userEmail string, value int) (*domain.VoteTally, error)
	TallyFor(ctx context.Context, target domain.VoteTarget, viewerEmail string) (*domain.VoteTally, error)
	TalliesFor(ctx context.Context, targetType domain.TargetType, targetIDs []uuid.UUID, viewerEmail string) (map[uuid.UUID]domain.VoteTally, error)
}

// voteRepositoryImpl is the GORM implementation of VoteRepository
type voteRepositoryImpl struct {
	db *gorm.DB
}

// NewVoteRepository creates a new instance of VoteRepository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepositoryImpl{db: db}
}

// targetModel returns the GORM model carrying the materialized score for a
// target type. The vote engine is written once and parameterized here
// instead of being duplicated per entity kind.
func targetModel(t domain.TargetType) (interface{}, error) {
	switch t {
	case domain.TargetPost:
		return &domain.Post{}, nil
	case domain.TargetComment:
		return &domain.Comment{}, nil
	default:
		return nil, fmt.Errorf("unknown vote target type %q", t)
	}
}

// Apply toggles userEmail's vote on the target inside one transaction:
// lock the entity row, mutate the vote row, recompute the score from the
// vote rows, persist. Voting the same direction twice removes the vote;
// voting the opposite direction switches it in place, so the user is
// never observable in both sets.
func (r *voteRepositoryImpl) Apply(ctx context.Context, target domain.VoteTarget, userEmail string, value int) (*domain.VoteTally, error) {
	if value != domain.VoteValueUp && value != domain.VoteValueDown {
		return nil, fmt.Errorf("invalid vote value %d", value)
	}

	var tally *domain.VoteTally
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := targetModel(target.Type)
		if err != nil {
			return err
		}

		// Serialize concurrent vote mutations on the same entity through a
		// row-level lock. SQLite (used by the tests) has no FOR UPDATE;
		// there the test database runs on a single connection, which
		// serializes transactions the same way.
		locked := tx
		if tx.Dialector.Name() == "postgres" {
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := locked.Select("id").First(model, "id = ?", target.ID).Error; err != nil {
			return err
		}

		var existing domain.Vote
		err = tx.Where("user_email = ? AND target_type = ? AND target_id = ?",
			userEmail, target.Type, target.ID).First(&existing).Error
		switch {
		case err == nil && existing.Value == value:
			// Same direction again: toggle the vote off
			if err := tx.Delete(&domain.Vote{}, "id = ?", existing.ID).Error; err != nil {
				return err
			}
		case err == nil:
			// Opposite direction: switch the single row in place
			if err := tx.Model(&domain.Vote{}).Where("id = ?", existing.ID).
				UpdateColumn("value", value).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := domain.Vote{
				UserEmail:  userEmail,
				TargetType: target.Type,
				TargetID:   target.ID,
				Value:      value,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		default:
			return err
		}

		t, err := tallyTx(tx, target, userEmail)
		if err != nil {
			return err
		}

		// The score is always derived from the sets, never incremented
		// independently of them.
		if err := tx.Model(model).Where("id = ?", target.ID).
			UpdateColumn("score", t.Score).Error; err != nil {
			return err
		}

		tally = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tally, nil
}

// TallyFor returns the current counts, score and viewer state for one
// entity. Pass an empty viewerEmail for unauthenticated reads.
func (r *voteRepositoryImpl) TallyFor(ctx context.Context, target domain.VoteTarget, viewerEmail string) (*domain.VoteTally, error) {
	return tallyTx(r.db.WithContext(ctx), target, viewerEmail)
}

func tallyTx(tx *gorm.DB, target domain.VoteTarget, viewerEmail string) (*domain.VoteTally, error) {
	var up, down int64
	if err := tx.Model(&domain.Vote{}).
		Where("target_type = ? AND target_id = ? AND value = ?", target.Type, target.ID, domain.VoteValueUp).
		Count(&up).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&domain.Vote{}).
		Where("target_type = ? AND target_id = ? AND value = ?", target.Type, target.ID, domain.VoteValueDown).
		Count(&down).Error; err != nil {
		return nil, err
	}

	state := domain.VoteStateNone
	if viewerEmail != "" {
		var vote domain.Vote
		err := tx.Where("user_email = ? AND target_type = ? AND target_id = ?",
			viewerEmail, target.Type, target.ID).First(&vote).Error
		if err == nil {
			state = domain.StateForValue(vote.Value)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return &domain.VoteTally{
		UpvoteCount:   up,
		DownvoteCount: down,
		Score:         int(up - down),
		ViewerState:   state,
	}, nil
}

// TalliesFor batch-loads tallies for a list of entities of one kind, used
// to annotate feed and comment pages without a query per row.
func (r *voteRepositoryImpl) TalliesFor(ctx context.Context, targetType domain.TargetType, targetIDs []uuid.UUID, viewerEmail string) (map[uuid.UUID]domain.VoteTally, error) {
	tallies := make(map[uuid.UUID]domain.VoteTally, len(targetIDs))
	for _, id := range targetIDs {
		tallies[id] = domain.VoteTally{ViewerState: domain.VoteStateNone}
	}
	if len(targetIDs) == 0 {
		return tallies, nil
	}

	type countRow struct {
		TargetID uuid.UUID `gorm:"column:target_id"`
		Value    int       `gorm:"column:value"`
		N        int64     `gorm:"column:n"`
	}
	var rows []countRow
	if err := r.db.WithContext(ctx).Model(&domain.Vote{}).
		Select("target_id, value, count(*) as n").
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Group("target_id, value").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		t := tallies[row.TargetID]
		switch row.Value {
		case domain.VoteValueUp:
			t.UpvoteCount = row.N
		case domain.VoteValueDown:
			t.DownvoteCount = row.N
		}
		t.Score = int(t.UpvoteCount - t.DownvoteCount)
		tallies[row.TargetID] = t
	}

	if viewerEmail != "" {
		var votes []domain.Vote
		if err := r.db.WithContext(ctx).
			Where("user_email = ? AND target_type = ? AND target_id IN ?", viewerEmail, targetType, targetIDs).
			Find(&votes).Error; err != nil {
			return nil, err
		}
		for _, vote := range votes {
			t := tallies[vote.TargetID]
			t.ViewerState = domain.StateForValue(vote.Value)
			tallies[vote.TargetID] = t
		}
	}

	return tallies, nil
}
