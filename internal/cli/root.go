package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/primegl"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Backend    string
	Verbose    bool
}

// NewRootCommand creates the root command for the primegl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "primegl",
		Short: "primegl - GPU frames and prime sieves",
		Long: "A demo shell for the primegl engine: present solid-color frames " +
			"through a graphics context and count primes with a bit-packed sieve.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.Verbose {
				primegl.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.toml or .yaml)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "graphics backend (wgpu|software)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewPrimesCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))

	return cmd
}

// statusLine renders a state the way the status badge of a UI would.
func statusLine(st primegl.State) string {
	switch st.Status {
	case primegl.StatusLoading:
		return "Loading engine..."
	case primegl.StatusError:
		return "Error: " + st.Err
	default:
		return "Engine ready"
	}
}

// openEngine loads an engine and reports each state change to w.
// Each edit runs on the loaded config before the engine starts.
func openEngine(ctx context.Context, opts *RootOptions, w io.Writer, edits ...func(*primegl.Config)) (*primegl.Engine, error) {
	cfg := primegl.DefaultConfig()
	if opts.ConfigPath != "" {
		c, err := primegl.LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "load config", err)
		}
		cfg = c
	}
	for _, edit := range edits {
		edit(&cfg)
	}

	var loadOpts []primegl.Option
	if opts.Backend != "" {
		loadOpts = append(loadOpts, primegl.WithBackend(opts.Backend))
	}

	l := primegl.Load(ctx, cfg, loadOpts...)
	for st := range l.Changes() {
		fmt.Fprintln(w, statusLine(st))
	}

	e, err := l.Engine()
	if err != nil {
		return nil, WrapExitError(ExitFailure, "engine unavailable", err)
	}
	return e, nil
}
