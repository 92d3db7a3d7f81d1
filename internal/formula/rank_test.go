package formula

import "testing"

func TestRankForLevel(t *testing.T) {
	cases := []struct {
		level int
		want  Rank
	}{
		{1, RankE},
		{9, RankE},
		{10, RankD},
		{19, RankD},
		{20, RankC},
		{35, RankB},
		{50, RankA},
		{69, RankA},
		{70, RankS},
		{500, RankS},
	}
	for _, c := range cases {
		if got := RankForLevel(c.level); got != c.want {
			t.Fatalf("RankForLevel(%d)=%s, want %s", c.level, got, c.want)
		}
	}
}

func TestMinLevelForRank(t *testing.T) {
	for _, r := range []Rank{RankE, RankD, RankC, RankB, RankA, RankS} {
		min := MinLevelForRank(r)
		if got := RankForLevel(min); got != r {
			t.Fatalf("RankForLevel(MinLevelForRank(%s))=%s", r, got)
		}
		if min > 1 {
			if got := RankForLevel(min - 1); got == r {
				t.Fatalf("rank %s already held at level %d", r, min-1)
			}
		}
	}
}
