package cli

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/primegl"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Surface string
	Color   string
	Out     string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Present one solid-color frame",
		Long: `Bind the graphics context to a surface, clear it to a color and
present the frame. The color is a preset (blue, green, red, random), an SVG
color name, or "r,g,b" floats. With --out the presented frame is written
as PNG.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Surface, "surface", "s", primegl.DefaultSurfaceID, "surface id")
	cmd.Flags().StringVar(&opts.Color, "color", "blue", "frame color")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the frame to a PNG file")

	return cmd
}

func runRender(cmd *cobra.Command, opts *RenderOptions) error {
	c, err := ParseColor(opts.Color)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid color", err)
	}

	e, err := openEngine(cmd.Context(), opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.InitGraphics(opts.Surface); err != nil {
		return WrapExitError(ExitFailure, "init graphics", err)
	}
	if err := e.RenderFrame(c.R, c.G, c.B); err != nil {
		return WrapExitError(ExitFailure, "render frame", err)
	}

	g := e.Graphics()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rendered %s on %s (%s)\n", RGB(g.LastColor()), opts.Surface, g.Backend())

	if opts.Out == "" {
		return nil
	}
	img, err := e.Snapshot(opts.Surface)
	if err != nil {
		return WrapExitError(ExitFailure, "snapshot", err)
	}
	if err := writePNG(opts.Out, img); err != nil {
		return WrapExitError(ExitFailure, "write png", err)
	}
	fmt.Fprintf(out, "Saved %s\n", opts.Out)
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
