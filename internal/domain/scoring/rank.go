package scoring

// Rank is a discrete progression tier derived from cumulative points.
type Rank string

// Rank tiers in ascending order.
const (
	RankBronze   Rank = "Bronze"
	RankSilver   Rank = "Silver"
	RankGold     Rank = "Gold"
	RankPlatinum Rank = "Platinum"
	RankDiamond  Rank = "Diamond"
)

// Tier boundaries on cumulative total points. Lower bound inclusive,
// upper bound exclusive.
const (
	silverFloor   = 1000
	goldFloor     = 5000
	platinumFloor = 15000
	diamondFloor  = 50000
)

// percentScale converts a ratio to a percentage.
const percentScale = 100

// RankForPoints maps cumulative total points to a rank tier and the
// progress percentage toward the next tier. Progress is always in
// [0, 100]; Diamond is terminal and reports a fixed 100.
func RankForPoints(points float64) (Rank, float64) {
	switch {
	case points < silverFloor:
		return RankBronze, clampProgress(points / silverFloor * percentScale)
	case points < goldFloor:
		return RankSilver, clampProgress((points - silverFloor) / (goldFloor - silverFloor) * percentScale)
	case points < platinumFloor:
		return RankGold, clampProgress((points - goldFloor) / (platinumFloor - goldFloor) * percentScale)
	case points < diamondFloor:
		return RankPlatinum, clampProgress((points - platinumFloor) / (diamondFloor - platinumFloor) * percentScale)
	default:
		return RankDiamond, percentScale
	}
}

// NextRank returns the tier above r, or r itself for Diamond.
func NextRank(r Rank) Rank {
	switch r {
	case RankBronze:
		return RankSilver
	case RankSilver:
		return RankGold
	case RankGold:
		return RankPlatinum
	case RankPlatinum:
		return RankDiamond
	default:
		return RankDiamond
	}
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > percentScale {
		return percentScale
	}
	return p
}
