package brackets

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/Dosada05/agent-tournament/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingShuffler records calls and leaves the order untouched.
type countingShuffler struct {
	calls int
}

func (s *countingShuffler) Shuffle(n int, swap func(i, j int)) {
	s.calls++
}

// reverseShuffler deterministically reverses the slice.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("p%02d", i)
	}
	return out
}

func sizes(groups []models.Group) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = g.Size()
	}
	return out
}

func TestFormGroups_PredefinedUsedVerbatim(t *testing.T) {
	shuffler := &countingShuffler{}
	predefined := map[string][]string{
		"g2": {"c", "d"},
		"g1": {"b", "a"},
	}

	groups, err := FormGroups([]string{"a", "b", "c", "d"}, predefined, 4, models.PartitionChunked, shuffler)
	require.NoError(t, err)

	assert.Equal(t, 0, shuffler.calls)
	assert.Equal(t, []models.Group{
		{Name: "g1", Members: []string{"b", "a"}},
		{Name: "g2", Members: []string{"c", "d"}},
	}, groups)

	groups[0].Members[0] = "mutated"
	assert.Equal(t, "b", predefined["g1"][0])
}

func TestFormGroups_ShufflesAndPartitions(t *testing.T) {
	shuffler := &countingShuffler{}
	groups, err := FormGroups([]string{"d", "b", "a", "c"}, nil, 2, models.PartitionChunked, shuffler)
	require.NoError(t, err)

	assert.Equal(t, 1, shuffler.calls)
	assert.Equal(t, []models.Group{
		{Name: "Group A", Members: []string{"a", "b"}},
		{Name: "Group B", Members: []string{"c", "d"}},
	}, groups)
}

func TestFormGroups_SeededIsReproducible(t *testing.T) {
	pool := ids(16)
	first, err := FormGroups(pool, nil, 4, models.PartitionBalanced, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	reversed := append([]string(nil), pool...)
	sort.Sort(sort.Reverse(sort.StringSlice(reversed)))
	second, err := FormGroups(reversed, nil, 4, models.PartitionBalanced, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFormGroups_NoCompetitors(t *testing.T) {
	_, err := FormGroups(nil, nil, 4, models.PartitionChunked, &countingShuffler{})
	assert.ErrorIs(t, err, ErrInsufficientCompetitors)
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		groups    int
		policy    models.PartitionPolicy
		wantSizes []int
	}{
		{"chunked even", 16, 4, models.PartitionChunked, []int{4, 4, 4, 4}},
		{"chunked ragged tail", 10, 4, models.PartitionChunked, []int{3, 3, 3, 1}},
		{"chunked fewer groups than asked", 5, 4, models.PartitionChunked, []int{2, 2, 1}},
		{"chunked six into four", 6, 4, models.PartitionChunked, []int{2, 2, 2}},
		{"chunked tiny pool", 3, 4, models.PartitionChunked, []int{1, 1, 1}},
		{"balanced even", 16, 4, models.PartitionBalanced, []int{4, 4, 4, 4}},
		{"balanced remainder first", 10, 4, models.PartitionBalanced, []int{3, 3, 2, 2}},
		{"balanced exact group count", 5, 4, models.PartitionBalanced, []int{2, 1, 1, 1}},
		{"balanced tiny pool", 3, 4, models.PartitionBalanced, []int{1, 1, 1}},
		{"single group", 7, 1, models.PartitionBalanced, []int{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := ids(tt.n)
			groups, err := Partition(pool, tt.groups, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSizes, sizes(groups))
			assert.Equal(t, pool, models.Members(groups), "order is preserved and nobody is lost")
			assert.Equal(t, "Group A", groups[0].Name)
		})
	}
}

func TestPartition_Errors(t *testing.T) {
	_, err := Partition(ids(4), 0, models.PartitionChunked)
	assert.Error(t, err)

	_, err = Partition(nil, 2, models.PartitionChunked)
	assert.ErrorIs(t, err, ErrInsufficientCompetitors)

	_, err = Partition(ids(4), 2, "random")
	assert.ErrorIs(t, err, models.ErrInvalidFormat)
}

func TestPartition_LargePoolsNeverLoseCompetitors(t *testing.T) {
	faker := gofakeit.New(11)
	for i := 0; i < 20; i++ {
		n := faker.IntRange(1, 200)
		groups := faker.IntRange(1, 16)
		pool := make([]string, n)
		for j := range pool {
			pool[j] = fmt.Sprintf("%s-%d", faker.Username(), j)
		}

		for _, policy := range []models.PartitionPolicy{models.PartitionChunked, models.PartitionBalanced} {
			out, err := Partition(pool, groups, policy)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(out), groups)
			for _, g := range out {
				assert.Positive(t, g.Size())
			}
			assert.ElementsMatch(t, pool, models.Members(out))
		}
	}
}

func TestValidatePredefinedGroups(t *testing.T) {
	competitors := []string{"a", "b", "c", "d"}
	tests := []struct {
		name         string
		groups       map[string][]string
		allowPartial bool
		wantErr      bool
	}{
		{"full cover", map[string][]string{"g1": {"a", "b"}, "g2": {"c", "d"}}, false, false},
		{"unknown member", map[string][]string{"g1": {"a", "x"}}, true, true},
		{"duplicate across groups", map[string][]string{"g1": {"a", "b"}, "g2": {"b", "c", "d"}}, false, true},
		{"empty group", map[string][]string{"g1": {"a", "b", "c", "d"}, "g2": {}}, false, true},
		{"uncovered competitor", map[string][]string{"g1": {"a", "b", "c"}}, false, true},
		{"uncovered allowed when permissive", map[string][]string{"g1": {"a", "b", "c"}}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePredefinedGroups(tt.groups, competitors, tt.allowPartial)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGroups)
				return
			}
			assert.NoError(t, err)
		})
	}
}
