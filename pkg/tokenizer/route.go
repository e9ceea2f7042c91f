package tokenizer

import "errors"

// ErrBadRoute is the internal, never-surfaced signal that a speculative
// parse failed. It is the "result type" realization of the route-failure
// contract: a construct handler invokes a nested parse, checks
// errors.Is(err, ErrBadRoute), resets the cursor, and either tries another
// interpretation or falls back to literal text. It must never reach a
// caller of Tokenize.
var ErrBadRoute = errors.New("tokenizer: route failed")

// failRoute discards the active frame and reports the route failure to the
// caller of parse. Discarding a frame is a slice truncation — O(1) beyond
// the frame's own size, which keeps repeated speculative failures from
// costing more than the text they examined.
func (tz *Tokenizer) failRoute() error {
	tz.frames.deleteTop()
	return ErrBadRoute
}
