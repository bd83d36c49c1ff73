package domain

// RetryPolicy bounds how often a failing item fetch is requeued.
// MaxAttempts of 0 retries until the caller cancels.
type RetryPolicy struct {
	MaxAttempts int
}

// Unbounded reports whether the policy never gives up on its own.
func (p RetryPolicy) Unbounded() bool {
	return p.MaxAttempts <= 0
}

// Allows reports whether another attempt may follow the given number of attempts.
func (p RetryPolicy) Allows(attempts int) bool {
	return p.Unbounded() || attempts < p.MaxAttempts
}

// Strategy selects the tree builder used to assemble a thread.
type Strategy string

// Tree strategies.
const (
	// StrategyLinks follows the kids lists reported by the item API.
	StrategyLinks Strategy = "links"
	// StrategyIndent rebuilds nesting from indentation on the rendered page.
	StrategyIndent Strategy = "indent"
)

// IsValid reports whether the strategy is known.
func (s Strategy) IsValid() bool {
	return s == StrategyLinks || s == StrategyIndent
}

// ParseStrategy parses a strategy name; empty means StrategyLinks.
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return StrategyLinks, nil
	}
	st := Strategy(s)
	if !st.IsValid() {
		return "", ErrInvalidStrategy
	}
	return st, nil
}

// Feed names a ranked story list.
type Feed string

// Feeds published by the item API.
const (
	FeedTop  Feed = "top"
	FeedNew  Feed = "new"
	FeedBest Feed = "best"
	FeedAsk  Feed = "ask"
	FeedShow Feed = "show"
	FeedJob  Feed = "job"
)

// AllFeeds lists the feeds in display order.
var AllFeeds = []Feed{FeedTop, FeedNew, FeedBest, FeedAsk, FeedShow, FeedJob}

// IsValid reports whether the feed is known.
func (f Feed) IsValid() bool {
	for _, known := range AllFeeds {
		if f == known {
			return true
		}
	}
	return false
}

// Path returns the API path of the feed, e.g. "topstories".
func (f Feed) Path() string {
	return string(f) + "stories"
}
