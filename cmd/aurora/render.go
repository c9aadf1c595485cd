package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/aurora"
	"github.com/gogpu/aurora/host/headless"
)

type renderFlags struct {
	width, height int
	frames        int
	interval      time.Duration
	start         time.Duration
	out           string
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames offscreen to PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, root, flags)
		},
	}
	f := cmd.Flags()
	f.IntVar(&flags.width, "width", 640, "frame width")
	f.IntVar(&flags.height, "height", 360, "frame height")
	f.IntVarP(&flags.frames, "frames", "n", 1, "number of frames")
	f.DurationVar(&flags.interval, "interval", time.Second/60, "time between frames")
	f.DurationVar(&flags.start, "start", 0, "timestamp of the first frame")
	f.StringVarP(&flags.out, "out", "o", "aurora.png", "output file; a %d verb or a numeric suffix numbers the frames")
	return cmd
}

func runRender(cmd *cobra.Command, root *rootFlags, flags *renderFlags) error {
	if flags.width <= 0 || flags.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", flags.width, flags.height)
	}
	if flags.frames <= 0 {
		return fmt.Errorf("invalid frame count %d", flags.frames)
	}
	opts, err := loadOptions(root.config)
	if err != nil {
		return err
	}
	opts = append(opts, aurora.WithRenderer(aurora.RendererSoftware))

	host := headless.New(flags.width, flags.height)
	const selector = "#render"
	host.AddContainer(selector)
	w := aurora.Mount(host, selector, opts...)
	defer w.Destroy()

	host.Step(0)
	if err := w.Err(); err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range flags.frames {
		host.Step(flags.start + time.Duration(i)*flags.interval)
		if err := w.Err(); err != nil {
			return err
		}
		frame := cloneRGBA(w.Canvas().Image())
		name := frameName(flags.out, i, flags.frames)
		g.Go(func() error {
			return writePNG(name, frame)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %d frame(s) at %dx%d\n", flags.frames, flags.width, flags.height)
	return nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// frameName numbers pattern for frame i of n. A pattern with a % verb is
// formatted; otherwise a single frame keeps the name and multiple frames
// get a zero-padded suffix before the extension.
func frameName(pattern string, i, n int) string {
	if strings.Contains(pattern, "%") {
		return fmt.Sprintf(pattern, i)
	}
	if n == 1 {
		return pattern
	}
	ext := filepath.Ext(pattern)
	return fmt.Sprintf("%s-%0*d%s", strings.TrimSuffix(pattern, ext), len(fmt.Sprint(n-1)), i, ext)
}

// writePNG stores premultiplied pixels as a non-premultiplied PNG.
func writePNG(name string, img *image.RGBA) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return nil
}
