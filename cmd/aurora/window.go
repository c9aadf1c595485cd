package main

import (
	"context"
	"errors"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/aurora"
	"github.com/gogpu/aurora/config"
	"github.com/gogpu/aurora/host/window"
)

type windowFlags struct {
	width, height int
	title         string
	watch         bool
	renderer      string
}

func newWindowCmd(root *rootFlags) *cobra.Command {
	flags := &windowFlags{}
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show the background in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWindow(cmd.Context(), root, flags)
		},
	}
	f := cmd.Flags()
	f.IntVar(&flags.width, "width", 1024, "window width")
	f.IntVar(&flags.height, "height", 640, "window height")
	f.StringVar(&flags.title, "title", "aurora", "window title")
	f.BoolVarP(&flags.watch, "watch", "w", false, "apply config file edits live")
	f.StringVar(&flags.renderer, "renderer", "", "auto, software or gpu (overrides the config file)")
	return cmd
}

func runWindow(ctx context.Context, root *rootFlags, flags *windowFlags) error {
	if flags.watch && root.config == "" {
		return errors.New("--watch needs --config")
	}
	opts, err := loadOptions(root.config)
	if err != nil {
		return err
	}
	if flags.renderer != "" {
		r, ok := aurora.ParseRenderer(flags.renderer)
		if !ok {
			return errors.New("unknown renderer " + flags.renderer)
		}
		opts = append(opts, aurora.WithRenderer(r))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(flags.title).
		WithSize(flags.width, flags.height).
		WithContinuousRender(false))

	host := window.New(app)
	bg := aurora.Mount(host, window.Selector, opts...)
	if err := bg.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	if flags.watch {
		g.Go(func() error {
			return config.Watch(ctx, root.config, config.Apply(bg))
		})
	}

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key == gpucontext.KeyEscape {
			app.Quit()
		}
	})
	app.OnClose(func() {
		bg.Destroy()
		host.Close()
		cancel()
	})

	runErr := app.Run()
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if err := bg.Err(); err != nil && !errors.Is(err, aurora.ErrGraphicsUnavailable) {
		return err
	}
	return nil
}
