package matching

import (
	"fmt"
	"math"
	"testing"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

func profile(id string, skills, interests []string) models.Profile {
	return models.Profile{ID: id, Name: "name-" + id, Skills: skills, Interests: interests}
}

func ids(results []models.MatchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScore_ScenarioA(t *testing.T) {
	e := NewEngine(DefaultWeights())
	base := BaseFromAttributes([]string{"python", "go"}, []string{"hiking"})
	x := profile("x", []string{"python", "rust"}, []string{"hiking", "chess"})

	b := Compare(base, &x)
	if b.SharedSkills != 1 || b.ComplementSkills != 1 || b.SharedInterests != 1 {
		t.Fatalf("breakdown = %+v", b)
	}
	if got := e.Score(base, &x); !approxEqual(got, 3.5) {
		t.Errorf("score = %v, want 3.5", got)
	}
}

func TestScore_IdenticalSets(t *testing.T) {
	e := NewEngine(DefaultWeights())
	skills := []string{"go", "sql", "k8s"}
	interests := []string{"climbing", "jazz"}
	base := BaseFromAttributes(skills, interests)
	c := profile("c", skills, interests)

	want := 2*2.0 + 1*3.0
	if got := e.Score(base, &c); !approxEqual(got, want) {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestScore_DuplicatesDoNotInflate(t *testing.T) {
	e := NewEngine(DefaultWeights())
	base := BaseFromAttributes([]string{"go", "go"}, []string{"chess", "chess"})
	dup := profile("d", []string{"go", "go", "rust", "rust"}, []string{"chess", "chess"})
	single := profile("s", []string{"go", "rust"}, []string{"chess"})

	if e.Score(base, &dup) != e.Score(base, &single) {
		t.Errorf("duplicate entries changed the score: %v vs %v", e.Score(base, &dup), e.Score(base, &single))
	}
}

func TestScore_CaseSensitive(t *testing.T) {
	e := NewEngine(DefaultWeights())
	base := BaseFromAttributes([]string{"Go"}, nil)
	c := profile("c", []string{"go"}, nil)

	// "go" is not "Go": no shared skill, one complementary skill.
	if got := e.Score(base, &c); !approxEqual(got, 0.5) {
		t.Errorf("score = %v, want 0.5", got)
	}
}

func TestScore_Monotonicity(t *testing.T) {
	e := NewEngine(DefaultWeights())
	base := BaseFromAttributes([]string{"go", "sql"}, []string{"hiking", "chess"})
	start := profile("c", []string{"go"}, []string{"hiking"})
	before := e.Score(base, &start)

	tests := []struct {
		name  string
		mod   func(p models.Profile) models.Profile
		delta float64
	}{
		{"shared interest", func(p models.Profile) models.Profile {
			p.Interests = append(append([]string{}, p.Interests...), "chess")
			return p
		}, 2},
		{"shared skill", func(p models.Profile) models.Profile {
			p.Skills = append(append([]string{}, p.Skills...), "sql")
			return p
		}, 1},
		{"non-shared skill", func(p models.Profile) models.Profile {
			p.Skills = append(append([]string{}, p.Skills...), "haskell")
			return p
		}, 0.5},
		{"non-shared interest", func(p models.Profile) models.Profile {
			p.Interests = append(append([]string{}, p.Interests...), "opera")
			return p
		}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			after := tc.mod(start)
			got := e.Score(base, &after) - before
			if !approxEqual(got, tc.delta) {
				t.Errorf("delta = %v, want %v", got, tc.delta)
			}
		})
	}
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	e := NewEngine(DefaultWeights())
	base := BaseFromAttributes([]string{"go"}, []string{"chess"})
	candidates := []models.Profile{
		profile("low", nil, nil),                           // 0
		profile("mid", []string{"go"}, nil),                // 1
		profile("high", []string{"go"}, []string{"chess"}), // 3
		profile("novel", []string{"rust", "zig"}, nil),     // 1
	}

	got := ids(e.Rank(base, candidates, 10))
	want := []string{"high", "mid", "novel", "low"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestRank_TiesKeepCandidateOrder(t *testing.T) {
	e := NewEngine(DefaultWeights())
	base := BaseFromAttributes(nil, nil)
	candidates := []models.Profile{
		profile("a", nil, nil),
		profile("b", nil, nil),
		profile("c", nil, nil),
		profile("d", nil, nil),
	}

	got := e.Rank(base, candidates, 3)
	if fmt.Sprint(ids(got)) != "[a b c]" {
		t.Errorf("order = %v, want [a b c]", ids(got))
	}
	for _, r := range got {
		if r.MatchScore != 0 {
			t.Errorf("%s scored %v, want 0", r.ID, r.MatchScore)
		}
	}
}

func TestRank_ExcludesBaseProfile(t *testing.T) {
	e := NewEngine(DefaultWeights())
	me := profile("me", []string{"go"}, []string{"chess"})
	candidates := []models.Profile{
		me,
		profile("other", []string{"go"}, nil),
	}

	got := e.Rank(BaseFromProfile(&me), candidates, 10)
	for _, r := range got {
		if r.ID == "me" {
			t.Fatal("base profile must not appear in results")
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
}

func TestRank_AttributeBaseExcludesNobody(t *testing.T) {
	e := NewEngine(DefaultWeights())
	candidates := []models.Profile{profile("a", nil, nil), profile("b", nil, nil)}

	got := e.Rank(BaseFromAttributes(nil, nil), candidates, 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
}

func TestRank_EmptyAndZeroLimit(t *testing.T) {
	e := NewEngine(DefaultWeights())
	base := BaseFromAttributes([]string{"go"}, nil)

	t.Run("empty pool", func(t *testing.T) {
		got := e.Rank(base, nil, 10)
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("limit zero", func(t *testing.T) {
		got := e.Rank(base, []models.Profile{profile("a", []string{"go"}, nil)}, 0)
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("negative limit", func(t *testing.T) {
		got := e.Rank(base, []models.Profile{profile("a", nil, nil)}, -3)
		if len(got) != 0 {
			t.Fatalf("expected 0 results, got %d", len(got))
		}
	})
}

func TestRank_LengthBound(t *testing.T) {
	e := NewEngine(DefaultWeights())
	pool := make([]models.Profile, 0, 7)
	for i := 0; i < 7; i++ {
		pool = append(pool, profile(fmt.Sprintf("p%d", i), []string{"go"}, nil))
	}
	base := BaseFromProfile(&pool[2])

	for _, limit := range []int{1, 3, 6, 7, 100} {
		got := e.Rank(base, pool, limit)
		bound := limit
		if len(pool)-1 < bound {
			bound = len(pool) - 1
		}
		if len(got) > bound {
			t.Errorf("limit=%d: len = %d, want <= %d", limit, len(got), bound)
		}
	}
}

func TestRank_Deterministic(t *testing.T) {
	e := NewEngine(DefaultWeights())
	base := BaseFromAttributes([]string{"go", "sql"}, []string{"chess"})
	pool := []models.Profile{
		profile("a", []string{"go"}, []string{"chess"}),
		profile("b", []string{"sql", "rust"}, nil),
		profile("c", []string{"go", "sql"}, nil),
		profile("d", []string{"rust"}, []string{"chess"}),
	}

	first := e.Rank(base, pool, 10)
	for i := 0; i < 20; i++ {
		again := e.Rank(base, pool, 10)
		if fmt.Sprint(ids(again)) != fmt.Sprint(ids(first)) {
			t.Fatalf("run %d: order %v differs from %v", i, ids(again), ids(first))
		}
		for j := range again {
			if again[j].MatchScore != first[j].MatchScore {
				t.Fatalf("run %d: score mismatch at %d", i, j)
			}
		}
	}
}

func TestRank_DoesNotMutateCandidates(t *testing.T) {
	e := NewEngine(DefaultWeights())
	pool := []models.Profile{
		profile("a", nil, nil),
		profile("b", []string{"go"}, []string{"chess"}),
	}
	_ = e.Rank(BaseFromAttributes([]string{"go"}, []string{"chess"}), pool, 10)

	if pool[0].ID != "a" || pool[1].ID != "b" {
		t.Errorf("candidate slice was reordered: %v", []string{pool[0].ID, pool[1].ID})
	}
}

func TestRank_CustomWeights(t *testing.T) {
	e := NewEngine(Weights{SharedInterest: 1, SharedSkill: 3, ComplementSkill: 0})
	base := BaseFromAttributes([]string{"go"}, []string{"chess"})
	c := profile("c", []string{"go", "rust"}, []string{"chess"})

	if got := e.Score(base, &c); !approxEqual(got, 4) {
		t.Errorf("score = %v, want 4", got)
	}
}
