package sound

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// throttle suppresses a body retriggering the same asset within interval.
// A zero interval lets everything through.
type throttle struct {
	interval time.Duration
	recent   *cache.Cache
}

func newThrottle(interval time.Duration) *throttle {
	t := &throttle{interval: interval}
	if interval > 0 {
		t.recent = cache.New(interval, 4*interval)
	}
	return t
}

// allow records the trigger and reports whether it may play.
func (t *throttle) allow(bodyID uint64, audio string) bool {
	if t.recent == nil {
		return true
	}
	key := strconv.FormatUint(bodyID, 10) + "/" + audio
	return t.recent.Add(key, struct{}{}, t.interval) == nil
}
