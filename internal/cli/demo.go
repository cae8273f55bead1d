package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/primegl"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	*RootOptions
	Surface string
	Bound   int
	OutDir  string
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through every engine capability",
		Long: `Load the engine, bind the graphics context, present the preset
frames (blue, green, red, random) and count the primes up to --bound.
With --out-dir every presented frame is saved as frame-<color>.png.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Surface, "surface", "s", primegl.DefaultSurfaceID, "surface id")
	cmd.Flags().IntVarP(&opts.Bound, "bound", "n", DefaultBound, "sieve bound")
	cmd.Flags().StringVarP(&opts.OutDir, "out-dir", "o", "", "directory for PNG frames")

	return cmd
}

func runDemo(cmd *cobra.Command, opts *DemoOptions) error {
	out := cmd.OutOrStdout()

	e, err := openEngine(cmd.Context(), opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.InitWebGL(opts.Surface) {
		fmt.Fprintf(out, "Graphics: unavailable on %s\n", opts.Surface)
	} else {
		fmt.Fprintf(out, "Graphics: %s on %s\n", e.Graphics().Backend(), opts.Surface)
		for _, name := range presetOrder {
			c, _ := ParseColor(name)
			if err := e.RenderFrame(c.R, c.G, c.B); err != nil {
				return WrapExitError(ExitFailure, "render "+name, err)
			}
			fmt.Fprintf(out, "  %-6s %s\n", name, c)
			if opts.OutDir == "" {
				continue
			}
			img, err := e.Snapshot(opts.Surface)
			if err != nil {
				return WrapExitError(ExitFailure, "snapshot", err)
			}
			path := filepath.Join(opts.OutDir, "frame-"+name+".png")
			if err := writePNG(path, img); err != nil {
				return WrapExitError(ExitFailure, "write png", err)
			}
		}
	}

	start := time.Now()
	summary, err := e.ComputePrimes(opts.Bound)
	if err != nil {
		return WrapExitError(ExitFailure, "compute primes", err)
	}
	fmt.Fprintf(out, "Primes: %s (%d ms)\n", summary, time.Since(start).Milliseconds())
	return nil
}
