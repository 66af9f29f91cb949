package recdb

import (
	"context"
	"fmt"
	"strings"
)

// Position selects where promoted items are inserted relative to the live
// queue.
type Position string

const (
	PositionBeginning Position = "beginning"
	PositionEnd       Position = "end"
	PositionAfter     Position = "after"
)

// ParsePosition validates a position flag value.
func ParsePosition(value string) (Position, error) {
	switch Position(strings.ToLower(strings.TrimSpace(value))) {
	case PositionBeginning:
		return PositionBeginning, nil
	case PositionEnd:
		return PositionEnd, nil
	case PositionAfter:
		return PositionAfter, nil
	}
	return "", fmt.Errorf("invalid position %q (expected beginning, end, or after)", value)
}

// afterStep is the fractional rank spacing used for after-anchor insertion.
// Enough insertions behind the same anchor can walk past the next integer
// rank; there is deliberately no renumbering to guard against that.
const afterStep = 0.001

// InsertRanks computes the ordered rank sequence for count items inserted at
// the given position, where boundary is the relevant live-queue rank: the
// minimum for beginning, the maximum for end, and the anchor row's rank for
// after.
//
// Beginning assigns boundary-1, boundary-2, ... in candidate order, which
// leaves the last candidate numerically lowest; the resulting reversed
// relative order among the new items is long-standing behavior and is kept.
func InsertRanks(position Position, boundary float64, count int) []float64 {
	ranks := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		switch position {
		case PositionBeginning:
			ranks = append(ranks, boundary-float64(i)-1)
		case PositionEnd:
			ranks = append(ranks, boundary+float64(i)+1)
		case PositionAfter:
			ranks = append(ranks, boundary+float64(i+1)*afterStep)
		}
	}
	return ranks
}

// PlanRanks resolves the live-queue boundary for the position and returns
// one target rank per candidate, in candidate order. For PositionAfter the
// anchor title must have a live row; otherwise ErrAnchorNotFound.
func (s *Store) PlanRanks(ctx context.Context, position Position, anchorTitle string, count int) ([]float64, error) {
	var (
		boundary float64
		err      error
	)
	switch position {
	case PositionBeginning:
		boundary, err = s.MinLiveRank(ctx)
	case PositionEnd:
		boundary, err = s.MaxLiveRank(ctx)
	case PositionAfter:
		boundary, err = s.AnchorRank(ctx, anchorTitle)
	default:
		return nil, fmt.Errorf("invalid position %q", position)
	}
	if err != nil {
		return nil, err
	}
	return InsertRanks(position, boundary, count), nil
}
