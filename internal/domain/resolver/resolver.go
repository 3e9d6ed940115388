// Package resolver computes effective votes by following delegations.
//
// A member's effective vote is their direct vote if they cast one.
// Otherwise a FIXED delegation takes the immediate delegate's direct vote
// and nothing further, and a TRANSITIVE delegation follows the chain
// through any further delegates until it reaches a direct vote. Dead ends
// and cycles abstain.
package resolver

import (
	"sort"

	"github.com/samber/lo"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/domain/delegation"
)

// Source says where an effective vote came from
type Source int

const (
	SourceNone Source = iota
	SourceDirect
	SourceDelegated
)

type outcome struct {
	selection int
	ok        bool
}

// Resolution holds the effective vote of every member for one motion
type Resolution struct {
	members   []domain.MemberID
	effective map[domain.MemberID]int
	source    map[domain.MemberID]Source
}

// Resolve computes the effective votes for a single motion. The snapshot
// must not change during the call; take it with Graph.Snapshot first.
// votes must all belong to the same motion.
func Resolve(snap *delegation.Snapshot, votes []domain.Vote) *Resolution {
	direct := make(map[domain.MemberID]int, len(votes))
	for _, v := range votes {
		direct[v.MemberID] = v.Selection
	}

	members := lo.Union(snap.Members(), lo.Keys(direct))
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

	r := &Resolution{
		members:   members,
		effective: make(map[domain.MemberID]int, len(members)),
		source:    make(map[domain.MemberID]Source, len(members)),
	}
	w := &walker{snap: snap, direct: direct, memo: make(map[domain.MemberID]outcome)}

	for _, m := range members {
		if sel, ok := direct[m]; ok {
			r.effective[m] = sel
			r.source[m] = SourceDirect
			continue
		}
		edge, ok := snap.Delegate(m)
		if !ok {
			continue
		}

		var o outcome
		switch edge.Type {
		case domain.DelegationFixed:
			sel, voted := direct[edge.To]
			o = outcome{selection: sel, ok: voted}
		case domain.DelegationTransitive:
			o = w.chainEnd(edge.To)
		}
		if o.ok {
			r.effective[m] = o.selection
			r.source[m] = SourceDelegated
		}
	}

	return r
}

// walker memoizes the vote found at the end of each member's chain
type walker struct {
	snap   *delegation.Snapshot
	direct map[domain.MemberID]int
	memo   map[domain.MemberID]outcome
}

// chainEnd follows delegate edges from start regardless of their type and
// returns the first direct vote. Every member visited on the way gets the
// same memoized outcome, so shared suffixes are walked once.
func (w *walker) chainEnd(start domain.MemberID) outcome {
	if o, ok := w.memo[start]; ok {
		return o
	}

	var path []domain.MemberID
	onPath := make(map[domain.MemberID]struct{})
	var result outcome

	for cur := start; ; {
		if o, ok := w.memo[cur]; ok {
			result = o
			break
		}
		if sel, ok := w.direct[cur]; ok {
			result = outcome{selection: sel, ok: true}
			w.memo[cur] = result
			break
		}
		if _, seen := onPath[cur]; seen {
			// cycle without a vote in it: everyone on the path abstains
			break
		}
		path = append(path, cur)
		onPath[cur] = struct{}{}

		edge, ok := w.snap.Delegate(cur)
		if !ok {
			break
		}
		cur = edge.To
	}

	for _, id := range path {
		w.memo[id] = result
	}
	return result
}

// Effective returns the member's effective selection, if any
func (r *Resolution) Effective(id domain.MemberID) (int, bool) {
	sel, ok := r.effective[id]
	return sel, ok
}

// Source reports how the member's effective vote was reached
func (r *Resolution) Source(id domain.MemberID) Source {
	return r.source[id]
}

// Members returns every member considered, sorted
func (r *Resolution) Members() []domain.MemberID {
	return r.members
}

// Tally counts effective votes per option. Every option of the motion
// appears in Counts, zero-filled.
func (r *Resolution) Tally(options []domain.Option) Tally {
	t := Tally{Counts: make(map[int]int, len(options))}
	for _, opt := range options {
		t.Counts[opt.Number] = 0
	}

	for _, m := range r.members {
		sel, ok := r.effective[m]
		if !ok {
			t.Abstentions++
			continue
		}
		t.Counts[sel]++
		if r.source[m] == SourceDirect {
			t.Direct++
		} else {
			t.Delegated++
		}
	}

	t.Leaders = leaders(t.Counts)
	return t
}

// Tally is the per-option count of effective votes
type Tally struct {
	Counts      map[int]int
	Abstentions int
	Direct      int
	Delegated   int
	// Leaders holds every option sharing the highest non-zero count, sorted.
	// Ties are reported here and never broken.
	Leaders []int
}

// Tied reports whether more than one option shares the lead
func (t Tally) Tied() bool {
	return len(t.Leaders) > 1
}

// Cast returns the number of members with an effective vote
func (t Tally) Cast() int {
	return t.Direct + t.Delegated
}

func leaders(counts map[int]int) []int {
	best := 0
	var out []int
	for _, number := range lo.Keys(counts) {
		n := counts[number]
		switch {
		case n == 0 || n < best:
		case n > best:
			best = n
			out = []int{number}
		default:
			out = append(out, number)
		}
	}
	sort.Ints(out)
	return out
}
