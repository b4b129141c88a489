package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kovidgoyal/imaging"
	"github.com/remeh/sizedwaitgroup"
	"github.com/urfave/cli/v3"

	"pixfx/engine"
	"pixfx/imageio"
	"pixfx/logging"
	"pixfx/pixbuf"
	"pixfx/shared"
	"pixfx/types"
	"pixfx/view"
)

func main() {
	shared.Defaults()
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}

func validAxes() []string {
	axes := make([]string, 0, len(types.AxisNames))
	for k := range types.AxisNames {
		axes = append(axes, k)
	}
	slices.Sort(axes)
	return axes
}

func unitRange(name string) func(context.Context, *cli.Command, float64) error {
	return func(_ context.Context, _ *cli.Command, v float64) error {
		if v < 0.0 || v > 1.0 {
			return fmt.Errorf("%s is outside of range [0.0-1.0]", name)
		}
		return nil
	}
}

// effectFlags are shared by view (starting values) and apply
func effectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:    "threshold",
			Value:   shared.DefaultThreshold,
			Aliases: []string{"t"},
			Usage:   "brightness `thresh`old that starts a run",
			Action:  unitRange("threshold"),
		},
		&cli.BoolFlag{
			Name:  "below",
			Usage: "sort runs darker than the threshold instead of brighter",
		},
		&cli.BoolFlag{
			Name:    "reverse",
			Aliases: []string{"r"},
			Usage:   "reverse the sort direction",
		},
		&cli.StringFlag{
			Name:  "axis",
			Value: types.Horizontal.String(),
			Usage: fmt.Sprintf("scanline `axis` to sort along [%s]", strings.Join(validAxes(), ", ")),
			Action: func(_ context.Context, _ *cli.Command, v string) error {
				_, err := types.ParseAxis(v)
				return err
			},
		},
		&cli.IntFlag{
			Name:  "distance",
			Value: shared.DefaultDistance,
			Usage: "colour split `offset` in pixels, may be negative",
		},
		&cli.IntFlag{
			Name:  "block",
			Value: shared.DefaultBlockSize,
			Usage: "pixelate block `size`",
		},
		&cli.IntFlag{
			Name:  "shift",
			Value: shared.DefaultShift,
			Usage: "colour floor `bits` to drop [0-7]",
		},
		&cli.IntFlag{
			Name:  "history",
			Value: shared.DefaultHistory,
			Usage: "undo `depth`",
		},
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                   "pixfx",
		Usage:                  "Mess with pixels.",
		Version:                "0.1.0",
		UseShortOptionHandling: true,
		EnableShellCompletion:  true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "print debug messages",
			},
			&cli.StringFlag{
				Name:  "logfile",
				Usage: "also write log lines to `file`",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			shared.Config.Debug = cmd.Bool("debug")
			shared.Config.LogFile = cmd.String("logfile")
			logging.Default().SetDebug(shared.Config.Debug)
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "view",
				Usage:     "edit an image interactively in a sixel capable terminal",
				ArgsUsage: "[image]",
				Flags: append(effectFlags(),
					&cli.IntFlag{
						Name:  "frame",
						Value: shared.DefaultFrameMillis,
						Usage: "frame interval in `ms`",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "sorted.png",
						Usage:   "default `file` for the save prompt",
					},
				),
				Action: viewAction,
			},
			{
				Name:  "apply",
				Usage: "run effects on images without a terminal",
				Flags: append(effectFlags(),
					&cli.StringSliceFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "`image`(s) to process, or a dir full of images",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "`file` to output to",
					},
					&cli.StringSliceFlag{
						Name:  "op",
						Value: []string{"pixel_sort"},
						Usage: fmt.Sprintf("`op`s to run in order [%s]", strings.Join(engine.RequestNames, ", ")),
					},
					&cli.FloatFlag{
						Name:    "angle",
						Aliases: []string{"a"},
						Usage:   "rotate the image by `deg`rees before the ops, pos or neg",
					},
					&cli.IntFlag{
						Name:  "threads",
						Value: shared.DefaultThreads,
						Usage: "process images in parallel across `N` threads",
					},
				),
				Action: applyAction,
			},
		},
	}
}

// readEffectFlags copies the shared effect flags into shared.Config
func readEffectFlags(cmd *cli.Command) error {
	axis, err := types.ParseAxis(cmd.String("axis"))
	if err != nil {
		return err
	}
	shift := int(cmd.Int("shift"))
	if shift < 0 || shift > 7 {
		return fmt.Errorf("shift %d is outside of range [0-7]", shift)
	}
	shared.Config.Threshold = types.ThresholdConfig{Value: cmd.Float("threshold"), Above: !cmd.Bool("below")}
	shared.Config.Reverse = cmd.Bool("reverse")
	shared.Config.Axis = axis
	shared.Config.Distance = int(cmd.Int("distance"))
	shared.Config.BlockSize = max(int(cmd.Int("block")), 1)
	shared.Config.Shift = uint8(shift)
	shared.Config.History = int(cmd.Int("history"))
	return nil
}

func viewAction(ctx context.Context, cmd *cli.Command) error {
	if err := readEffectFlags(cmd); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	shared.Config.FrameMillis = int(cmd.Int("frame"))
	shared.Config.Path = cmd.Args().First()

	if !view.IsTerminal() {
		return cli.Exit("view needs an interactive terminal, use apply instead", 1)
	}

	/// the screen owns the terminal from here on, send log lines to the
	/// status bar ring (and the log file if asked)
	log := logging.Default()
	if shared.Config.LogFile != "" {
		logFile, err := os.Create(shared.Config.LogFile)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error creating log file: %v", err), 1)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(nil)
	}

	charSize := view.DetectCharSize()

	session, err := engine.OpenSession(shared.Config.Path, shared.Config.History)
	if session == nil {
		return cli.Exit(fmt.Sprintf("Could not start session: %v", err), 1)
	}
	defer session.Close()
	if err != nil {
		log.Warnf("%v, starting on a blank image", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error creating new screen: %v", err), 1)
	}
	if err := screen.Init(); err != nil {
		return cli.Exit(fmt.Sprintf("Error initializing screen: %v", err), 1)
	}
	defer func() {
		screen.Fini()
		log.SetOutput(os.Stderr)
	}()
	screen.Clear()

	viewer := view.New(screen, session, os.Stdout, view.Options{
		Params:   shared.Config.Params,
		SavePath: cmd.String("output"),
		CharSize: charSize,
		Frame:    time.Duration(shared.Config.FrameMillis) * time.Millisecond,
		Logger:   log,
	})
	return viewer.Run(ctx)
}

func applyAction(ctx context.Context, cmd *cli.Command) error {
	if err := readEffectFlags(cmd); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	inputs := cmd.StringSlice("input")
	output := cmd.String("output")
	shared.Config.Ops = cmd.StringSlice("op")
	shared.Config.Angle = cmd.Float("angle")
	shared.Config.Threads = max(int(cmd.Int("threads")), 1)

	/// validate the op list once, before touching any file
	requests := make([]engine.Request, 0, len(shared.Config.Ops))
	for _, name := range shared.Config.Ops {
		req, err := engine.ParseRequest(name, shared.Config.Params)
		if err != nil {
			return cli.Exit(fmt.Sprintf("%v [%s]", err, strings.Join(engine.RequestNames, ", ")), 2)
		}
		if _, err := engine.Apply(pixbuf.New(0, 0), req); err != nil {
			return cli.Exit(fmt.Sprintf("%s can't be used with apply", req.Name()), 2)
		}
		requests = append(requests, req)
	}

	if len(inputs) == 1 {
		stat, err := os.Stat(inputs[0])
		if err != nil {
			return cli.Exit(fmt.Sprintf("%s could not be opened", inputs[0]), 1)
		}
		if stat.IsDir() {
			inputs, err = imageio.FindImages(inputs[0])
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
		}
	}
	/// sort em first so frames dont get jumbled
	slices.Sort(inputs)
	inputLen := len(inputs)
	logging.Infof("processing %d images with %v", inputLen, shared.Config.Ops)

	failed := make([]error, inputLen)
	wg := sizedwaitgroup.New(shared.Config.Threads)
	for i := 0; i < inputLen; i++ {
		wg.Add()
		go func(i int) {
			defer wg.Done()
			in := inputs[i]
			out := outputName(in, output, i, inputLen)
			logging.Infof("loading image %d (%s -> %s)...", i+1, in, out)
			if err := process(in, out, requests); err != nil {
				logging.Errorf("image %d (%q): %v", i+1, in, err)
				failed[i] = err
			}
		}(i)
	}
	wg.Wait()

	for _, err := range failed {
		if err != nil {
			return cli.Exit("some images could not be processed", 1)
		}
	}
	return nil
}

// outputName picks frame%04d names for batches and sorted.<ext> by default
func outputName(input, output string, i, total int) string {
	ext := strings.TrimPrefix(filepath.Ext(input), ".")
	if !imageio.CanEncode(input) {
		/// webp and friends only decode
		ext = "png"
	}
	if total > 1 {
		if output != "" {
			return filepath.Join(output, fmt.Sprintf("frame%04d.%s", i, ext))
		}
		return fmt.Sprintf("frame%04d.%s", i, ext)
	}
	if output == "" {
		return fmt.Sprintf("sorted.%s", ext)
	}
	return output
}

func process(input, output string, requests []engine.Request) error {
	rawImg, _, err := imageio.Decode(input)
	if err != nil {
		return err
	}

	/// RO TA TE
	/// imaging doesnt crop transparency, so remember the size for later
	originalDims := rawImg.Bounds()
	rotated := math.Mod(shared.Config.Angle, 360) != 0
	if rotated {
		rawImg = imaging.Rotate(rawImg, shared.Config.Angle, color.Transparent)
	}
	b := pixbuf.FromImage(rawImg)
	rawImg = nil

	start := time.Now()
	for _, req := range requests {
		b, err = engine.Apply(b, req)
		if err != nil {
			return err
		}
	}
	logging.Infof("%s elapsed: %s", output, time.Since(start).Truncate(time.Millisecond))

	/// ET AT OR
	if rotated {
		back := imaging.Rotate(b.Image(), -shared.Config.Angle, color.Transparent)
		/// gotta crop the invisible pixels
		if math.Mod(shared.Config.Angle, 90) != 0 {
			back = imaging.CropCenter(back, originalDims.Dx(), originalDims.Dy())
		}
		b = pixbuf.FromImage(back)
	}

	logging.Infof("writing %s...", output)
	return imageio.Save(output, b)
}
