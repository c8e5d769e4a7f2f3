package placement

import "fmt"

// generatorFunc builds the placement map for one strategy. It receives the
// engine so it can read the shared parameters (dimensions, rack topology)
// and returns the block-id -> Entry map or an error if the strategy's
// precondition is violated.
type generatorFunc func(e *Engine) (map[int]Entry, error)

// strategies is a global registry of strategy number -> generator,
// populated by the init() in strategies.go. This mirrors the
// teacher's codec registry (rsmt2d's codecs.go registerCodec/codecs map):
// same "register once, panic on duplicate, look up by key" shape, applied
// here to placement strategies instead of swappable RS codec backends.
var strategies = make(map[Strategy]generatorFunc)

func registerStrategy(s Strategy, fn generatorFunc) {
	if strategies[s] != nil {
		panic(fmt.Sprintf("placement: strategy %d already registered", s))
	}
	strategies[s] = fn
}
