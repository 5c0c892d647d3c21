// cmd/portfolioctl/quote.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"portfolio-tracker/internal/pricing"
)

type quoteCmd struct {
	instrument string
	price      string
	at         string

	out io.Writer
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "print the simulated price of an instrument" }
func (*quoteCmd) Usage() string {
	return `portfolioctl quote -instrument <symbol> -price <reference> [-at <RFC3339 time>]

  Prints the simulated current price for the instrument, the hour bucket it
  was derived from and the band it is guaranteed to stay within. The same
  inputs print the same price on every machine.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.instrument, "instrument", "", "Instrument symbol, e.g. AAPL.")
	f.StringVar(&c.price, "price", "", "Reference (buy) price.")
	f.StringVar(&c.at, "at", "", "Instant to price at, RFC3339. Defaults to now.")
}

func (c *quoteCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.instrument) == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "both -instrument and -price are required")
		return subcommands.ExitUsageError
	}
	ref, err := decimal.NewFromString(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -price %q: %v\n", c.price, err)
		return subcommands.ExitUsageError
	}
	at := time.Now()
	if c.at != "" {
		if at, err = time.Parse(time.RFC3339, c.at); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -at %q: %v\n", c.at, err)
			return subcommands.ExitUsageError
		}
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	band := ref.Mul(pricing.MaxVariation)
	fmt.Fprintf(out, "instrument: %s\n", c.instrument)
	fmt.Fprintf(out, "bucket:     %d\n", pricing.HourBucket(at))
	fmt.Fprintf(out, "reference:  %s\n", ref)
	fmt.Fprintf(out, "price:      %s\n", pricing.SimulatePrice(c.instrument, ref, at))
	fmt.Fprintf(out, "band:       %s .. %s\n", ref.Sub(band).Round(2), ref.Add(band).Round(2))
	return subcommands.ExitSuccess
}
