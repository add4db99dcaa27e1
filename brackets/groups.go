package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/Dosada05/agent-tournament/utils"
)

var (
	ErrInvalidGroups           = errors.New("invalid predefined groups")
	ErrInsufficientCompetitors = errors.New("not enough competitors")
)

// Shuffler is the subset of *rand.Rand used for random permutations.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// FormGroups builds the first round. A predefined grouping is used verbatim
// (ordered by group name) and the shuffler is never touched; otherwise the
// competitors are shuffled and partitioned into targetGroups groups.
func FormGroups(competitors []string, predefined map[string][]string, targetGroups int, policy models.PartitionPolicy, shuffler Shuffler) ([]models.Group, error) {
	if len(predefined) > 0 {
		names := make([]string, 0, len(predefined))
		for name := range predefined {
			names = append(names, name)
		}
		sort.Strings(names)

		groups := make([]models.Group, 0, len(names))
		for _, name := range names {
			groups = append(groups, models.Group{
				Name:    name,
				Members: append([]string(nil), predefined[name]...),
			})
		}
		return groups, nil
	}

	if len(competitors) == 0 {
		return nil, fmt.Errorf("%w: no competitors to group", ErrInsufficientCompetitors)
	}

	pool := append([]string(nil), competitors...)
	// Callers often collect ids from a map; sorting first makes a seeded
	// shuffle reproducible.
	sort.Strings(pool)
	shuffler.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	return Partition(pool, targetGroups, policy)
}

// Partition cuts an already ordered pool into named groups. Empty groups are
// never produced, so fewer than groupCount groups come back when the pool is
// small.
//
// PartitionChunked fills groups of ceil(n/groupCount) in order, so sizes can
// differ by more than one (10 into 4 gives 3,3,3,1) and 6 into 4 yields only
// three groups. PartitionBalanced keeps sizes within one of each other.
func Partition(pool []string, groupCount int, policy models.PartitionPolicy) ([]models.Group, error) {
	if groupCount < 1 {
		return nil, fmt.Errorf("group count must be positive, got %d", groupCount)
	}
	n := len(pool)
	if n == 0 {
		return nil, fmt.Errorf("%w: cannot partition an empty pool", ErrInsufficientCompetitors)
	}

	var sizes []int
	switch policy {
	case models.PartitionChunked:
		size := (n + groupCount - 1) / groupCount
		for remaining := n; remaining > 0; remaining -= size {
			sizes = append(sizes, min(size, remaining))
		}
	case models.PartitionBalanced:
		count := min(n, groupCount)
		base, extra := n/count, n%count
		for i := 0; i < count; i++ {
			size := base
			if i < extra {
				size++
			}
			sizes = append(sizes, size)
		}
	default:
		return nil, fmt.Errorf("%w: unknown partition policy %q", models.ErrInvalidFormat, policy)
	}

	groups := make([]models.Group, 0, len(sizes))
	start := 0
	for i, size := range sizes {
		groups = append(groups, models.Group{
			Name:    utils.GroupLabel(i),
			Members: append([]string(nil), pool[start:start+size]...),
		})
		start += size
	}
	return groups, nil
}

// ValidatePredefinedGroups checks a configured grouping against the entrant
// list. Every member must be a known competitor and appear once; groups must
// not be empty. Unless allowPartial is set, every competitor must be placed.
func ValidatePredefinedGroups(predefined map[string][]string, competitors []string, allowPartial bool) error {
	known := make(map[string]bool, len(competitors))
	for _, c := range competitors {
		known[c] = true
	}

	placed := make(map[string]string)
	names := make([]string, 0, len(predefined))
	for name := range predefined {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		members := predefined[name]
		if len(members) == 0 {
			return fmt.Errorf("%w: group %q is empty", ErrInvalidGroups, name)
		}
		for _, m := range members {
			if !known[m] {
				return fmt.Errorf("%w: group %q lists unknown competitor %q", ErrInvalidGroups, name, m)
			}
			if prev, dup := placed[m]; dup {
				return fmt.Errorf("%w: competitor %q is in both %q and %q", ErrInvalidGroups, m, prev, name)
			}
			placed[m] = name
		}
	}

	if allowPartial {
		return nil
	}

	var missing []string
	for _, c := range competitors {
		if _, ok := placed[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: competitors without a group: %v", ErrInvalidGroups, missing)
	}
	return nil
}
