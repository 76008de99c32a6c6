// Package trajlog wires the trajectory builder's structured records to a
// zerolog console logger on stderr.
package trajlog

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is the package-level structured logger the builder emits named
// records to (e.g. forward_sw_point, back_splice_idx, backward_intersection,
// mvc_overshoot_bisect).
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Caller().Logger()

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
