package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/primegl"
)

// DefaultBound is the bound used when primes is run without arguments.
const DefaultBound = 1_000_000

// PrimesOptions holds flags for the primes command.
type PrimesOptions struct {
	*RootOptions
	List    bool // print every prime, not only the summary
	Workers int  // sieve goroutines, overrides the config
}

// NewPrimesCommand creates the primes command.
func NewPrimesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrimesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "primes [bound]",
		Short: "Count the primes up to a bound",
		Long: `Count the primes <= bound with the bit-packed sieve and print a
summary together with the elapsed time. The bound defaults to 1,000,000 and
may be written with underscores or commas (100_000_000).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bound := DefaultBound
			if len(args) == 1 {
				b, err := parseBound(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid bound", err)
				}
				bound = b
			}
			return runPrimes(cmd, opts, bound)
		},
	}

	cmd.Flags().BoolVarP(&opts.List, "list", "l", false, "print every prime")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "sieve goroutines (0 or 1 = serial)")

	return cmd
}

func parseBound(s string) (int, error) {
	s = strings.NewReplacer("_", "", ",", "").Replace(strings.TrimSpace(s))
	return strconv.Atoi(s)
}

func runPrimes(cmd *cobra.Command, opts *PrimesOptions, bound int) error {
	out := cmd.OutOrStdout()

	e, err := openEngine(cmd.Context(), opts.RootOptions, cmd.ErrOrStderr(), func(c *primegl.Config) {
		if cmd.Flags().Changed("workers") {
			c.Workers = opts.Workers
		}
	})
	if err != nil {
		return err
	}
	defer e.Close()

	start := time.Now()
	summary, err := e.ComputePrimes(bound)
	if err != nil {
		return WrapExitError(ExitFailure, "compute primes", err)
	}
	elapsed := time.Since(start)

	fmt.Fprintln(out, summary)
	fmt.Fprintf(out, "Computed in %d ms\n", elapsed.Milliseconds())

	if opts.List {
		primes, err := e.Primes(bound)
		if err != nil {
			return WrapExitError(ExitFailure, "list primes", err)
		}
		for _, p := range primes {
			fmt.Fprintln(out, p)
		}
	}
	return nil
}
