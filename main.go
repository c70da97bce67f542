// Go-BMP loads, edits and saves uncompressed 24/32 bit bitmaps
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/anas-shakeel/bmploader/internal/adjustments"
	"github.com/anas-shakeel/bmploader/internal/bmp"
	"github.com/anas-shakeel/bmploader/internal/config"
	"github.com/anas-shakeel/bmploader/internal/filters"
	"github.com/anas-shakeel/bmploader/internal/graphics"
)

type options struct {
	configPath string
	load       string
	save       string
	bpp        int
	newSize    string
	fill       string

	crop     string
	resize   string
	resample string
	channel  string

	invert     bool
	grayscale  bool
	luma       bool
	brightness float64
	brightOp   string
	contrast   float64
	expr       string

	print bool
	meta  bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("go-bmp", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", "bmploader.yml", "YAML configuration file")
	fs.StringVar(&opts.load, "load", "", "bitmap to load")
	fs.StringVar(&opts.load, "l", "", "shorthand for --load")
	fs.StringVar(&opts.save, "save", "", "path to save the bitmap to (must not exist)")
	fs.StringVar(&opts.save, "s", "", "shorthand for --save")
	fs.IntVar(&opts.bpp, "bpp", 0, "bits per pixel when saving: 24 or 32 (default from config)")
	fs.StringVar(&opts.newSize, "new", "", "create a blank WxH bitmap instead of loading one")
	fs.StringVar(&opts.fill, "fill", "", "fill color for --new as r,g,b[,a] in 0..1 (default from config)")

	fs.StringVar(&opts.crop, "crop", "", "crop to x,y,w,h")
	fs.StringVar(&opts.resize, "resize", "", "resize to WxH")
	fs.StringVar(&opts.resample, "resample", "", "resize method: nearest, approx, bilinear or catmullrom")
	fs.StringVar(&opts.channel, "channel", "", "keep a single channel: red, green or blue")

	fs.BoolVar(&opts.invert, "invert", false, "invert colors")
	fs.BoolVar(&opts.grayscale, "grayscale", false, "convert to grayscale (average)")
	fs.BoolVar(&opts.luma, "luma", false, "convert to grayscale (ITU-R 601-2 luma)")
	fs.Float64Var(&opts.brightness, "brightness", 0, "brightness factor (0 = unchanged)")
	fs.StringVar(&opts.brightOp, "brightness-method", "add", "brightness method: add or multiply")
	fs.Float64Var(&opts.contrast, "contrast", 0, "contrast factor (0 = unchanged)")
	fs.StringVar(&opts.expr, "expr", "", "per-channel formula over v, r, g, b, a (e.g. \"v * 1.2\")")

	fs.BoolVar(&opts.print, "print", false, "print the bitmap in the terminal (small images only)")
	fs.BoolVar(&opts.meta, "meta", false, "print bitmap metadata")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.load == "" && opts.newSize == "" {
		return nil, errors.New("nothing to do: pass --load <path> or --new WxH")
	}
	if opts.load != "" && opts.newSize != "" {
		return nil, errors.New("--load and --new are mutually exclusive")
	}
	return opts, nil
}

// Parses "WxH"
func parseSize(s string) (width, height int, err error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", s)
	}
	if width, err = strconv.Atoi(strings.TrimSpace(w)); err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	if height, err = strconv.Atoi(strings.TrimSpace(h)); err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: width and height must be greater than 0", s)
	}
	return width, height, nil
}

// Parses a comma separated list of n ints
func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("invalid value %q: want %d comma separated numbers", s, n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// Parses "r,g,b" or "r,g,b,a"
func parseFill(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, fmt.Errorf("invalid fill %q: want r,g,b[,a]", s)
	}
	out := make([]float32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid fill %q: %w", s, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// Merges flags over the config file values
func resolve(opts *options, cfg config.Config) (config.Config, error) {
	if opts.bpp != 0 {
		cfg.BitsPerPixel = opts.bpp
	}
	if opts.resample != "" {
		cfg.Resample = opts.resample
	}
	if opts.fill != "" {
		fill, err := parseFill(opts.fill)
		if err != nil {
			return cfg, err
		}
		cfg.Fill = fill
	}
	return cfg, cfg.Validate()
}

// Runs the requested operations on the bitmap in order:
// crop, resize, channel, then the color filters
func process(bitmap *bmp.Bitmap, opts *options, cfg config.Config) error {
	img := bitmap.Image()

	if opts.crop != "" {
		rect, err := parseInts(opts.crop, 4)
		if err != nil {
			return err
		}
		if img, err = adjustments.Crop(img, rect[0], rect[1], rect[2], rect[3]); err != nil {
			return err
		}
	}
	if opts.resize != "" {
		width, height, err := parseSize(opts.resize)
		if err != nil {
			return err
		}
		if img, err = adjustments.Resize(img, width, height, cfg.Resample); err != nil {
			return err
		}
	}
	if opts.channel != "" {
		var err error
		if img, err = adjustments.Channel(img, opts.channel); err != nil {
			return err
		}
	}

	type step struct {
		enabled bool
		run     func(*graphics.Image) error
	}
	steps := []step{
		{opts.invert, filters.Invert},
		{opts.grayscale, filters.Grayscale},
		{opts.luma, filters.GrayscaleLuma},
		{opts.brightness != 0, func(img *graphics.Image) error {
			return filters.Brightness(img, opts.brightness, opts.brightOp)
		}},
		{opts.contrast != 0, func(img *graphics.Image) error {
			return filters.Contrast(img, opts.contrast)
		}},
		{opts.expr != "", func(img *graphics.Image) error {
			return filters.Expression(img, opts.expr)
		}},
	}
	for _, s := range steps {
		if !s.enabled {
			continue
		}
		if err := s.run(img); err != nil {
			return err
		}
	}

	return bitmap.SetImage(img)
}

func run(opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if cfg, err = resolve(opts, cfg); err != nil {
		return err
	}

	level, _ := cfg.Level()
	bmp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var bitmap *bmp.Bitmap
	if opts.load != "" {
		if bitmap, err = bmp.ReadBitmap(opts.load); err != nil {
			return err
		}
		fmt.Printf("Loaded %s (%dx%d)\n", opts.load, bitmap.Width(), bitmap.Height())
	} else {
		width, height, err := parseSize(opts.newSize)
		if err != nil {
			return err
		}
		fill, _ := cfg.FillPixel()
		if bitmap, err = bmp.NewBitmap(width, height, fill); err != nil {
			return err
		}
		fmt.Printf("Created %dx%d bitmap\n", width, height)
	}

	if err := process(bitmap, opts, cfg); err != nil {
		return err
	}

	if opts.meta {
		bitmap.PrintMetadata(os.Stdout)
	}
	if opts.print {
		bitmap.PrintBitmap(os.Stdout)
	}

	if opts.save != "" {
		if err := bitmap.Save(opts.save, cfg.BitsPerPixel); err != nil {
			return err
		}
		fmt.Printf("Saved %s (%d bits per pixel)\n", opts.save, cfg.BitsPerPixel)
	}
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}
