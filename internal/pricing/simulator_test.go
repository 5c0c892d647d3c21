// internal/pricing/simulator_test.go
package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// hour returns an instant inside the given hour bucket.
func hour(bucket int64) time.Time {
	return time.Unix(bucket*3600+1234, 0).UTC()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestHourBucket(t *testing.T) {
	assert.Equal(t, int64(0), HourBucket(time.Unix(0, 0)))
	assert.Equal(t, int64(0), HourBucket(time.Unix(3599, 0)))
	assert.Equal(t, int64(1), HourBucket(time.Unix(3600, 0)))
	assert.Equal(t, int64(490000), HourBucket(hour(490000)))
	assert.Equal(t, int64(-1), HourBucket(time.Unix(-1, 0)))
	assert.Equal(t, int64(-1), HourBucket(time.Unix(-3600, 0)))
	assert.Equal(t, int64(-2), HourBucket(time.Unix(-3601, 0)))
}

func TestVariationKnownSeeds(t *testing.T) {
	// md5("AAPL_490000") = 336b674b... -> 0x336b674b % 10000 = 6811
	assert.True(t, dec("0.01811").Equal(Variation("AAPL", 490000)))
	// md5("MSFT_0") = 82ea6a5c... -> 732
	assert.True(t, dec("-0.04268").Equal(Variation("MSFT", 0)))
}

func TestSimulatePriceExact(t *testing.T) {
	tests := []struct {
		instrument string
		ref        string
		bucket     int64
		want       string
	}{
		{"AAPL", "150.00", 490000, "152.72"}, // 150 * 1.01811 = 152.7165
		{"AAPL", "150.00", 490001, "151.13"}, // n=5751: 150 * 1.00751 = 151.1265
		{"GOOGL", "2000", 490000, "2020.88"}, // n=6044
		{"MSFT", "300", 0, "287.2"},          // n=732: 300 * 0.95732 = 287.196
	}

	for _, tt := range tests {
		t.Run(tt.instrument, func(t *testing.T) {
			got := SimulatePrice(tt.instrument, dec(tt.ref), hour(tt.bucket))
			assert.True(t, dec(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestSimulatePriceDeterministicWithinHour(t *testing.T) {
	start := time.Unix(490000*3600, 0)
	first := SimulatePrice("AAPL", dec("150"), start)
	for _, offset := range []time.Duration{time.Second, 30 * time.Minute, 59*time.Minute + 59*time.Second} {
		assert.True(t, first.Equal(SimulatePrice("AAPL", dec("150"), start.Add(offset))))
	}

	next := SimulatePrice("AAPL", dec("150"), start.Add(time.Hour))
	assert.False(t, first.Equal(next), "price should move at the hour boundary")
}

func TestSimulatePriceNonPositiveReference(t *testing.T) {
	now := hour(490000)
	assert.True(t, decimal.Zero.Equal(SimulatePrice("AAPL", decimal.Zero, now)))
	assert.True(t, dec("-12.5").Equal(SimulatePrice("AAPL", dec("-12.5"), now)))
}

func TestSimulatePriceTinyReferenceFallsBack(t *testing.T) {
	// 0.001 * (1 ± 0.05) rounds to 0.00, so the reference price is returned as-is.
	ref := dec("0.001")
	assert.True(t, ref.Equal(SimulatePrice("AAPL", ref, hour(490000))))
}

func TestSimulator(t *testing.T) {
	at := hour(490000)
	s := &Simulator{Now: func() time.Time { return at }}
	assert.True(t, dec("152.72").Equal(s.Price("AAPL", dec("150"))))

	var zero Simulator
	assert.True(t, zero.Price("AAPL", dec("150")).IsPositive())
	assert.NotNil(t, NewSimulator().Now)
}

func TestProperty_SimulatedPriceBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		instrument := rapid.StringMatching(`[A-Z]{1,6}`).Draw(t, "instrument")
		cents := rapid.Int64Range(1, 100_000_000).Draw(t, "cents")
		bucket := rapid.Int64Range(0, 1_000_000).Draw(t, "bucket")

		ref := decimal.New(cents, -2)
		price := SimulatePrice(instrument, ref, hour(bucket))

		if !price.IsPositive() {
			t.Fatalf("price %s not positive for ref %s", price, ref)
		}
		half := dec("0.005")
		low := ref.Mul(dec("0.95")).Sub(half)
		high := ref.Mul(dec("1.05")).Add(half)
		if price.LessThan(low) || price.GreaterThan(high) {
			t.Fatalf("price %s outside [%s, %s] for ref %s", price, low, high, ref)
		}
		if again := SimulatePrice(instrument, ref, hour(bucket)); !again.Equal(price) {
			t.Fatalf("non-deterministic: %s then %s", price, again)
		}
	})
}

func TestProperty_VariationRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		instrument := rapid.String().Draw(t, "instrument")
		bucket := rapid.Int64().Draw(t, "bucket")

		v := Variation(instrument, bucket)
		if v.LessThan(MaxVariation.Neg()) || v.GreaterThanOrEqual(MaxVariation) {
			t.Fatalf("variation %s out of range", v)
		}
	})
}
