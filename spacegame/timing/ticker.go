package timing

import "github.com/jonboulle/clockwork"

// TickerLimiter uses a clock ticker for simple, consistent frame timing.
type TickerLimiter struct {
	ticker clockwork.Ticker
}

func NewTickerLimiter(clock clockwork.Clock) *TickerLimiter {
	return &TickerLimiter{
		ticker: clock.NewTicker(FrameDuration()),
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.Chan()
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(FrameDuration())
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
