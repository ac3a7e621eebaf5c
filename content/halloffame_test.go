package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []HallOfFameItem {
	return []HallOfFameItem{
		{ID: "a", Rank: 3, TweetURL: "https://x.com/a/status/1", Category: BrutalReply},
		{ID: "b", Rank: 1, TweetURL: "https://x.com/b/status/2", Category: MicDrop},
		{ID: "c", Rank: 2, TweetURL: "https://x.com/c/status/3", Category: BrutalReply},
		{ID: "d", Rank: 4, TweetURL: "https://x.com/d/status/4", Category: RatioKing},
	}
}

func ids(items []HallOfFameItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestHallOfFameItems(t *testing.T) {
	h, err := NewHallOfFame(testItems())
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(h.Items(AllTweets)))
	assert.Equal(t, []string{"c", "a"}, ids(h.Items(BrutalReply)))
	assert.Empty(t, ids(h.Items(SavagePost)))
	assert.Equal(t, 4, h.Len())
}

func TestNewHallOfFameValidates(t *testing.T) {
	bad := testItems()
	bad[0].Category = "hot-take"
	_, err := NewHallOfFame(bad)
	assert.ErrorIs(t, err, ErrInvalidTweetCategory)

	bad = testItems()
	bad[1].Rank = 0
	_, err = NewHallOfFame(bad)
	assert.ErrorIs(t, err, ErrInvalidRank)

	bad = testItems()
	bad[2].ID = "a"
	_, err = NewHallOfFame(bad)
	assert.ErrorIs(t, err, ErrDuplicateID)

	bad = testItems()
	bad[3].TweetURL = ""
	_, err = NewHallOfFame(bad)
	assert.ErrorIs(t, err, ErrMissingTweetURL)
}

func TestTweetCategories(t *testing.T) {
	assert.Equal(t, []TweetCategory{BrutalReply, SavagePost, MicDrop, RatioKing}, TweetCategories())
	assert.True(t, MicDrop.Valid())
	assert.False(t, AllTweets.Valid())
	assert.Equal(t, "Ratio Kings", RatioKing.Label())
	assert.Equal(t, "custom", TweetCategory("custom").Label())
}
