package tile

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterTiles returns an iterator over all tiles in the stack.
// It yields tile addresses and their data. Iteration may panic on
// unrecoverable errors.
func IterTiles(r Visitor) iter.Seq2[Address, []byte] {
	return func(yield func(Address, []byte) bool) {
		err := r.VisitTiles(func(addr Address, tileData []byte) error {
			if !yield(addr, tileData) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}
