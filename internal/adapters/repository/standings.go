package repository

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/cabe-arena/arena/pkg/metrics"
)

// Treap-based, in-memory Standings implementation.
//
// Ordering: total points DESC, then user ID ASC, so an in-order traversal
// yields the leaderboard from best to worst. Subtree sizes make rank
// queries O(log n) expected.

// treapNode is one user in the ordered index.
type treapNode struct {
	id     string
	points int
	prio   uint64
	left   *treapNode
	right  *treapNode
	size   int
}

func nsize(n *treapNode) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *treapNode) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aPoints, aID) ranks earlier than (bPoints, bID).
func less(aPoints int, aID string, bPoints int, bID string) bool {
	if aPoints != bPoints {
		return aPoints > bPoints
	}
	return aID < bID
}

func rotateRight(y *treapNode) *treapNode {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *treapNode) *treapNode {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *treapNode, id string, points int, prio uint64) *treapNode {
	if n == nil {
		return &treapNode{id: id, points: points, prio: prio, size: 1}
	}
	if less(points, id, n.points, n.id) {
		n.left = insert(n.left, id, points, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, points, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *treapNode, id string, points int) *treapNode {
	if n == nil {
		return nil
	}
	if points == n.points && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, id, points)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, id, points)
		}
	} else if less(points, id, n.points, n.id) {
		n.left = remove(n.left, id, points)
	} else {
		n.right = remove(n.right, id, points)
	}
	fix(n)
	return n
}

// rankOf returns the 1-based in-order position of (id, points), assuming
// the node is present.
func rankOf(n *treapNode, id string, points int) int {
	rank := 1
	for n != nil {
		if points == n.points && id == n.id {
			return rank + nsize(n.left)
		}
		if less(points, id, n.points, n.id) {
			n = n.left
		} else {
			rank += nsize(n.left) + 1
			n = n.right
		}
	}
	return rank
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *treapNode, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{UserID: n.id, TotalPoints: n.points})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// TreapStandings implements Standings with a randomized treap.
type TreapStandings struct {
	mu   sync.RWMutex
	root *treapNode
	byID map[string]int // userID -> total points
	rng  *rand.Rand
}

// NewTreapStandings constructs an empty standings store.
func NewTreapStandings() *TreapStandings {
	return &TreapStandings{
		byID: make(map[string]int),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // treap balancing, not security
	}
}

// AddPoints adds delta to a user's cumulative total in O(log n) expected
// time and returns the new total. Totals never go below zero.
func (s *TreapStandings) AddPoints(_ context.Context, userID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.byID[userID]
	total := old + delta
	if total < 0 {
		total = 0
	}
	if existed {
		s.root = remove(s.root, userID, old)
	}
	s.byID[userID] = total
	s.root = insert(s.root, userID, total, s.rng.Uint64())

	if !existed {
		metrics.UpdateTotalUsers(len(s.byID))
	}
	return total, nil
}

// Standing returns the user's position and total in O(log n) expected
// time.
func (s *TreapStandings) Standing(_ context.Context, userID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total, ok := s.byID[userID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return Entry{
		Rank:        rankOf(s.root, userID, total),
		UserID:      userID,
		TotalPoints: total,
	}, nil
}

// TopN returns the first n leaderboard rows.
func (s *TreapStandings) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, &out)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Count returns the number of users tracked.
func (s *TreapStandings) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
