package services

import (
	"context"
	"errors"
	"log"

	"lireddit/internal/models"

	"gorm.io/gorm"
)

// VoteTransition is the state change a vote caused on a (user, post) pair.
type VoteTransition int

const (
	VoteUnchanged VoteTransition = iota
	VoteInserted
	VoteFlipped
)

func (t VoteTransition) String() string {
	switch t {
	case VoteInserted:
		return "inserted"
	case VoteFlipped:
		return "flipped"
	default:
		return "unchanged"
	}
}

const maxVoteAttempts = 3

var errVoteConflict = errors.New("concurrent vote on the same post")

// nextVote maps the current vote (0 when none is cast) and the requested
// direction to a transition and the delta to apply to post.points.
// A flip reverses the old contribution and adds the new one, so it is
// worth twice a fresh vote. Voting the same direction again is a no-op.
func nextVote(current, value int) (VoteTransition, int) {
	switch {
	case current == 0:
		return VoteInserted, value
	case current != value:
		return VoteFlipped, 2 * value
	default:
		return VoteUnchanged, 0
	}
}

// VoteService is the only writer of post.points.
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// CastVote records userID's vote on postID. The sign of value picks the
// direction; zero is rejected. It reports true when the vote changed state.
// Conflicts with a concurrent vote on the same pair are retried and, if they
// persist, reported as false. A missing post yields ErrNotFound.
func (s *VoteService) CastVote(ctx context.Context, userID, postID uint, value int) (bool, error) {
	transition, err := s.Apply(ctx, userID, postID, value)
	if err != nil {
		return false, err
	}
	return transition != VoteUnchanged, nil
}

// Apply is CastVote returning the transition that was taken.
func (s *VoteService) Apply(ctx context.Context, userID, postID uint, value int) (VoteTransition, error) {
	realValue := sign(value)
	if realValue == 0 {
		return VoteUnchanged, nil
	}

	for attempt := 1; attempt <= maxVoteAttempts; attempt++ {
		transition, err := s.attempt(ctx, userID, postID, realValue)
		if errors.Is(err, errVoteConflict) {
			log.Printf("[vote] conflict on user=%d post=%d (attempt %d), retrying", userID, postID, attempt)
			continue
		}
		if err != nil {
			return VoteUnchanged, err
		}
		return transition, nil
	}

	log.Printf("[vote] giving up on user=%d post=%d after %d attempts", userID, postID, maxVoteAttempts)
	return VoteUnchanged, nil
}

// attempt reads the existing updoot, writes the new state and adjusts
// points inside one transaction.
func (s *VoteService) attempt(ctx context.Context, userID, postID uint, value int) (VoteTransition, error) {
	transition := VoteUnchanged

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return notFound(err)
		}

		current := 0
		var existing models.Updoot
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).Take(&existing).Error
		if err == nil {
			current = existing.Value
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		next, delta := nextVote(current, value)
		switch next {
		case VoteUnchanged:
			return nil
		case VoteInserted:
			updoot := models.Updoot{UserID: userID, PostID: postID, Value: value}
			if err := tx.Create(&updoot).Error; err != nil {
				if isUniqueViolation(err) {
					return errVoteConflict
				}
				return err
			}
		case VoteFlipped:
			// only flip the value we read, a concurrent flip leaves 0 rows here
			res := tx.Model(&models.Updoot{}).
				Where("user_id = ? AND post_id = ? AND value = ?", userID, postID, current).
				Update("value", value)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return errVoteConflict
			}
		}

		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("points", gorm.Expr("points + ?", delta)).
			Error; err != nil {
			return err
		}

		transition = next
		return nil
	})
	if err != nil {
		return VoteUnchanged, err
	}
	return transition, nil
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
