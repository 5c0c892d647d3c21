// Package pricing derives synthetic current prices for holdings.
//
// Prices are never fetched or stored: each one is a pure function of the
// instrument name, the reference (buy) price and the wall-clock hour, so every
// process computes the same value for the same inputs within an hour.
package pricing

import (
	"crypto/md5"
	"encoding/binary"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// fractionResolution is the number of distinct steps in the pseudo-random fraction.
	fractionResolution = 10000
	// n in [0, 10000) maps to the variation (n - 5000) * 10^-5.
	variationOffset = fractionResolution / 2
	variationExp    = -5
	pricePlaces     = 2
)

// MaxVariation is the largest relative move away from the reference price.
var MaxVariation = decimal.NewFromFloat(0.05)

// HourBucket returns the number of whole hours between the Unix epoch and at.
func HourBucket(at time.Time) int64 {
	secs := at.Unix()
	bucket := secs / 3600
	if secs%3600 < 0 {
		bucket-- // floor for instants before the epoch
	}
	return bucket
}

// fraction returns the deterministic integer n in [0, 10000) for the seed
// "<instrument>_<bucket>": the first four bytes of its MD5 digest, big-endian,
// modulo 10000.
func fraction(instrument string, bucket int64) int64 {
	sum := md5.Sum([]byte(instrument + "_" + strconv.FormatInt(bucket, 10)))
	return int64(binary.BigEndian.Uint32(sum[:4]) % fractionResolution)
}

// Variation returns the signed relative move in [-0.05, +0.05) for an instrument in a given hour.
func Variation(instrument string, bucket int64) decimal.Decimal {
	return decimal.New(fraction(instrument, bucket)-variationOffset, variationExp)
}

// SimulatePrice returns the synthetic current price of instrument at the given
// instant, within ±5% of ref and rounded to cents.
//
// A non-positive ref is returned unchanged, as is ref itself if rounding ever
// drives the result to zero or below.
func SimulatePrice(instrument string, ref decimal.Decimal, at time.Time) decimal.Decimal {
	if !ref.IsPositive() {
		return ref
	}

	price := ref.Mul(decimal.NewFromInt(1).Add(Variation(instrument, HourBucket(at)))).Round(pricePlaces)
	if !price.IsPositive() {
		return ref
	}
	return price
}

// Simulator prices holdings against an injectable clock.
// The zero value uses time.Now.
type Simulator struct {
	Now func() time.Time
}

// NewSimulator returns a Simulator reading the system clock.
func NewSimulator() *Simulator {
	return &Simulator{Now: time.Now}
}

// Price implements portfolio.Pricer.
func (s *Simulator) Price(instrument string, ref decimal.Decimal) decimal.Decimal {
	return SimulatePrice(instrument, ref, s.now())
}

func (s *Simulator) now() time.Time {
	if s == nil || s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
