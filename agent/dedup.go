package agent

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// dedupWindowSize bounds how many recent (source, msg_id) pairs the agent
// remembers. Past this many distinct requests the oldest are evicted and
// could in principle be replayed undetected — an accepted bound since the
// window is explicitly a window, not an unbounded log.
const dedupWindowSize = 4096

// dedup tracks recently seen (source address, msg_id) pairs to back wire
// error code 4 ("duplicate message"). Built on
// github.com/hashicorp/golang-lru/v2.
type dedup struct {
	seen *lru.Cache[string, struct{}]
}

func newDedup() *dedup {
	cache, err := lru.New[string, struct{}](dedupWindowSize)
	if err != nil {
		// Only returns an error for a non-positive size, which dedupWindowSize
		// never is.
		panic("agent: dedup: " + err.Error())
	}
	return &dedup{seen: cache}
}

// CheckAndMark reports whether (addr, msgID) has been seen before within
// the current window, then records it regardless.
func (d *dedup) CheckAndMark(addr string, msgID uint64) bool {
	key := addr + "#" + strconv.FormatUint(msgID, 10)
	_, duplicate := d.seen.Get(key)
	d.seen.Add(key, struct{}{})
	return duplicate
}
