package content

import (
	"errors"
	"fmt"
	"slices"
)

// TweetCategory classifies a hall of fame entry.
type TweetCategory string

const (
	BrutalReply TweetCategory = "brutal-reply"
	SavagePost  TweetCategory = "savage-post"
	MicDrop     TweetCategory = "mic-drop"
	RatioKing   TweetCategory = "ratio-king"

	// AllTweets is the Items sentinel meaning "no category restriction".
	AllTweets TweetCategory = "all"
)

var tweetCategories = []TweetCategory{BrutalReply, SavagePost, MicDrop, RatioKing}

var tweetCategoryLabels = map[TweetCategory]string{
	BrutalReply: "Brutal Replies",
	SavagePost:  "Savage Posts",
	MicDrop:     "Mic Drops",
	RatioKing:   "Ratio Kings",
	AllTweets:   "All",
}

// Valid reports whether c is one of the known categories.
func (c TweetCategory) Valid() bool {
	return slices.Contains(tweetCategories, c)
}

// Label is the display name of c.
func (c TweetCategory) Label() string {
	if l, ok := tweetCategoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// TweetSnapshot is the denormalized copy of an external post some entries
// carry. Entries without one are rendered by embedding the URL.
type TweetSnapshot struct {
	Username    string
	DisplayName string
	AvatarURL   string
	Verified    bool
	Text        string
	Likes       int
	Retweets    int
	Replies     int
	Date        string
}

// HallOfFameItem is a ranked reference to an externally hosted social post
// with editorial commentary.
type HallOfFameItem struct {
	ID         string
	Rank       int
	TweetURL   string
	Category   TweetCategory
	Commentary string
	Snapshot   *TweetSnapshot
}

var (
	ErrInvalidTweetCategory = errors.New("content: invalid hall of fame category")
	ErrInvalidRank          = errors.New("content: hall of fame rank must be positive")
	ErrMissingTweetURL      = errors.New("content: hall of fame entry has no url")
)

// HallOfFame is an immutable list of entries.
type HallOfFame struct {
	items []HallOfFameItem
}

// NewHallOfFame validates items.
func NewHallOfFame(items []HallOfFameItem) (*HallOfFame, error) {
	ids := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := ids[it.ID]; dup || it.ID == "" {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, it.ID)
		}
		ids[it.ID] = struct{}{}
		switch {
		case !it.Category.Valid():
			return nil, fmt.Errorf("%w: %q on entry %q", ErrInvalidTweetCategory, it.Category, it.ID)
		case it.Rank <= 0:
			return nil, fmt.Errorf("%w: entry %q", ErrInvalidRank, it.ID)
		case it.TweetURL == "":
			return nil, fmt.Errorf("%w: entry %q", ErrMissingTweetURL, it.ID)
		}
	}
	return &HallOfFame{items: slices.Clone(items)}, nil
}

// Items returns entries in category (or every entry for AllTweets), ranked
// ascending.
func (h *HallOfFame) Items(category TweetCategory) []HallOfFameItem {
	out := []HallOfFameItem{}
	for _, it := range h.items {
		if category == AllTweets || it.Category == category {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b HallOfFameItem) int { return a.Rank - b.Rank })
	return out
}

// Len returns the number of entries.
func (h *HallOfFame) Len() int {
	return len(h.items)
}

// TweetCategories returns the known categories in display order.
func TweetCategories() []TweetCategory {
	return slices.Clone(tweetCategories)
}
