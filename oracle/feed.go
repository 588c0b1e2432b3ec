package oracle

import (
	"sync"

	"github.com/holiman/uint256"
)

// Feed is the external price/reserve source, `latestAnswer()`-shaped.
type Feed interface {
	LatestAnswer() (*uint256.Int, int64)
}

// StaticFeed is a settable in-memory feed, standing in for a real
// aggregator during tests and local deployments.
type StaticFeed struct {
	mtx       sync.Mutex
	answer    *uint256.Int
	updatedAt int64
}

func NewStaticFeed(answer *uint256.Int, updatedAt int64) *StaticFeed {
	return &StaticFeed{
		answer:    new(uint256.Int).Set(answer),
		updatedAt: updatedAt,
	}
}

func (f *StaticFeed) Set(answer *uint256.Int, updatedAt int64) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.answer = new(uint256.Int).Set(answer)
	f.updatedAt = updatedAt
}

func (f *StaticFeed) LatestAnswer() (*uint256.Int, int64) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return new(uint256.Int).Set(f.answer), f.updatedAt
}

// Adapter exposes a proof-of-reserve reading for solvency display. Readings
// are advisory: no staleness check is applied here, consumers get the
// timestamp and decide for themselves.
type Adapter struct {
	feed Feed
}

func NewAdapter(feed Feed) *Adapter {
	return &Adapter{feed: feed}
}

func (a *Adapter) GetLatestReserve() (*uint256.Int, int64) {
	return a.feed.LatestAnswer()
}
