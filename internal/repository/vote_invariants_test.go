package repository

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"community-feed-api/internal/domain"
)

// **Property: vote toggle invariants**
// For any sequence of upvote/downvote actions by any mix of users, after
// every action:
//   - a user holds at most one vote row per entity (sets are disjoint)
//   - the materialized score equals upvotes minus downvotes
//   - each user's final state equals a naive replay of their toggles
func TestProperty_VoteSequenceInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	type action struct {
		user  int
		value int
	}

	genAction := gopter.CombineGens(
		gen.IntRange(0, 3),
		gen.OneConstOf(domain.VoteValueUp, domain.VoteValueDown),
	).Map(func(vals []interface{}) action {
		return action{user: vals[0].(int), value: vals[1].(int)}
	})

	properties.Property("toggle sequences keep sets disjoint and score derived", prop.ForAll(
		func(actions []action) bool {
			db := setupTestDB(t)
			repo := NewVoteRepository(db)
			post := seedPost(t, db, "author@example.com")
			target := domain.VoteTarget{Type: domain.TargetPost, ID: post.ID}

			// Naive model: one slot per user, 0 none / 1 up / -1 down
			model := make(map[int]int)

			for _, a := range actions {
				email := fmt.Sprintf("user%d@x.com", a.user)
				tally, err := repo.Apply(testCtx(), target, email, a.value)
				if err != nil {
					return false
				}

				if model[a.user] == a.value {
					model[a.user] = 0
				} else {
					model[a.user] = a.value
				}

				var wantUp, wantDown int64
				for _, v := range model {
					switch v {
					case domain.VoteValueUp:
						wantUp++
					case domain.VoteValueDown:
						wantDown++
					}
				}

				if tally.UpvoteCount != wantUp || tally.DownvoteCount != wantDown {
					return false
				}
				if tally.Score != int(wantUp-wantDown) {
					return false
				}
				if tally.ViewerState != domain.StateForValue(model[a.user]) {
					return false
				}

				// One row per (user, entity), enforced structurally
				var rowCount int64
				if err := db.Model(&domain.Vote{}).
					Where("user_email = ? AND target_id = ?", email, post.ID).
					Count(&rowCount).Error; err != nil {
					return false
				}
				if rowCount > 1 {
					return false
				}

				// Materialized score never drifts from the vote rows
				var stored domain.Post
				if err := db.First(&stored, "id = ?", post.ID).Error; err != nil {
					return false
				}
				if stored.Score != tally.Score {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genAction),
	))

	properties.TestingRun(t)
}
