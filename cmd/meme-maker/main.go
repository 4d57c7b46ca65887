package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/menta2k/meme-maker/internal/config"
	"github.com/menta2k/meme-maker/internal/logging"
	"github.com/menta2k/meme-maker/internal/utils"
	"github.com/menta2k/meme-maker/pkg/codec"
	"github.com/menta2k/meme-maker/pkg/compositor"
	"github.com/menta2k/meme-maker/pkg/editor"
	"github.com/menta2k/meme-maker/pkg/exporter"
	"github.com/menta2k/meme-maker/pkg/platform"
	"github.com/menta2k/meme-maker/pkg/recipe"
	"github.com/menta2k/meme-maker/pkg/session"
	"github.com/menta2k/meme-maker/pkg/source"
	"github.com/menta2k/meme-maker/pkg/watch"
)

// textFlags collects repeated -text flags
type textFlags []string

func (t *textFlags) String() string { return strings.Join(*t, " | ") }

func (t *textFlags) Set(v string) error {
	*t = append(*t, v)
	return nil
}

type options struct {
	in       string
	texts    textFlags
	position string
	recipe   string
	frame    string
	filter   string
	share    bool
	debug    bool
}

func main() {
	var opts options
	var configPath, outDir, ext, platformKind, logLevel, logFormat string
	var quality int
	var lossless, watchMode bool

	flag.StringVar(&opts.in, "in", "", "input image path, - for stdin (browser platform)")
	flag.Var(&opts.texts, "text", "caption text, repeat for more lines")
	flag.StringVar(&opts.position, "position", "top", "where -text lines go: top|center|bottom")
	flag.StringVar(&opts.recipe, "recipe", "", "meme recipe file (yaml|toml|json)")
	flag.StringVar(&opts.frame, "frame", "", "frame image drawn over the photo")
	flag.StringVar(&opts.filter, "filter", "", "filter: "+strings.Join(compositor.FilterNames(), "|"))

	flag.StringVar(&configPath, "config", config.GetConfigPath(), "configuration file")
	flag.StringVar(&outDir, "out", "", "output directory (overrides platform data/download dir)")
	flag.StringVar(&ext, "ext", "", "output format: png|jpg|webp")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP output lossless mode")
	flag.StringVar(&platformKind, "platform", "", "platform: auto|native|browser")
	flag.BoolVar(&opts.share, "share", false, "share the meme after saving")
	flag.BoolVar(&opts.debug, "debug", false, "also write a debug overlay with caption bounds")
	flag.BoolVar(&watchMode, "watch", false, "rebuild whenever the inputs change")
	flag.StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	flag.StringVar(&logFormat, "log-format", "", "log format: text|json")

	flag.Parse()
	if opts.in == "" && opts.recipe == "" {
		log.Fatalf("usage: %s -in photo.jpg [-text TOP -text BOTTOM] [-recipe meme.yaml] [-frame frame.png] [-filter sepia] [-out dir] [-ext png|jpg|webp] [-share] [-watch]", filepath.Base(os.Args[0]))
	}

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if outDir != "" {
		cfg.Platform.DataDir = outDir
		cfg.Platform.DownloadDir = outDir
	}
	if ext != "" {
		cfg.Export.Format = ext
	}
	if quality > 0 {
		cfg.Export.Quality = quality
	}
	if lossless {
		cfg.Export.Lossless = true
	}
	if platformKind != "" {
		cfg.Platform.Kind = platformKind
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logCfg, err := cfg.LoggingOptions()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Close()
	slog.SetDefault(logger.Logger)

	fonts, err := loadFonts(cfg)
	if err != nil {
		logger.Error("font setup failed", "err", err)
		os.Exit(1)
	}
	comp := compositor.NewWithFonts(fonts, logger.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	build := func(ctx context.Context) error {
		return run(ctx, cfg, comp, opts, logger.Logger)
	}
	if err := build(ctx); err != nil {
		logger.Error("meme failed", "err", err)
		if !watchMode {
			os.Exit(1)
		}
	}
	if !watchMode {
		return
	}

	w := watch.New(build, opts.in, opts.recipe, opts.frame).WithLogger(logger.Logger)
	if err := w.Run(ctx); err != nil {
		logger.Error("watch failed", "err", err)
		os.Exit(1)
	}
}

func loadFonts(cfg *config.Config) (*compositor.FontBook, error) {
	fonts := compositor.NewFontBook()
	for family, path := range cfg.Fonts.Files {
		if err := fonts.RegisterFile(family, path); err != nil {
			return nil, err
		}
	}
	if cfg.Fonts.Fallback != "" {
		if err := fonts.SetFallback(cfg.Fonts.Fallback); err != nil {
			return nil, err
		}
	}
	return fonts, nil
}

// run builds one meme: choose the photo, apply captions, save, and
// optionally share and write the debug overlay
func run(ctx context.Context, cfg *config.Config, comp *compositor.Compositor, opts options, logger *slog.Logger) error {
	if err := validateInputs(opts); err != nil {
		return err
	}
	pc := cfg.PlatformOptions()
	if opts.in == "-" {
		pc.Input = os.Stdin
	} else {
		pc.Picker = platform.StaticPicker(opts.in)
	}
	caps, err := platform.Detect(pc, logger)
	if err != nil {
		return err
	}

	sessOpts, err := cfg.SessionOptions()
	if err != nil {
		return err
	}
	sessOpts.Compositor = comp
	sessOpts.Logger = logger
	exportOpts, err := cfg.ExportOptions()
	if err != nil {
		return err
	}

	loader := source.New()
	ed := editor.NewWithConfig(caps, editor.Config{
		Session:  session.NewWithOptions(sessOpts),
		Loader:   loader,
		Exporter: exporter.NewWithOptions(caps, exportOpts, logger),
		Logger:   logger,
	})

	r, err := buildRecipe(opts)
	if err != nil {
		return err
	}
	if opts.in != "" {
		if err := ed.ChooseImage(ctx); err != nil {
			return err
		}
	}
	if err := r.Apply(ed.Session(), loader); err != nil {
		return fmt.Errorf("failed to apply captions: %w", err)
	}

	location, err := ed.Save(ctx)
	if err != nil {
		return err
	}
	logger.Info("wrote meme", "location", location, "captions", len(ed.Session().Captions()))

	if opts.debug {
		if err := writeDebugOverlay(ctx, caps, ed.Session(), logger); err != nil {
			logger.Warn("debug overlay save failed", "err", err)
		}
	}

	if opts.share {
		if err := ed.Share(ctx); err != nil && !errors.Is(err, platform.ErrCancelled) {
			return err
		}
	}
	return nil
}

// validateInputs checks that the photo and frame named on the command line
// are existing image files
func validateInputs(opts options) error {
	for _, in := range []struct{ flag, path string }{{"in", opts.in}, {"frame", opts.frame}} {
		if in.path == "" || (in.flag == "in" && in.path == "-") {
			continue
		}
		if !utils.IsImageFile(in.path) {
			return fmt.Errorf("-%s %s: not a jpg, png, gif or webp file", in.flag, in.path)
		}
		if !utils.FileExists(in.path) {
			return fmt.Errorf("-%s %s: file not found", in.flag, in.path)
		}
	}
	return nil
}

// buildRecipe loads -recipe and layers the command-line captions, frame
// and filter on top of it
func buildRecipe(opts options) (*recipe.Recipe, error) {
	r := &recipe.Recipe{}
	if opts.recipe != "" {
		loaded, err := recipe.Load(opts.recipe)
		if err != nil {
			return nil, err
		}
		r = loaded
	}
	if opts.in != "" {
		// the chosen photo wins over the recipe's
		r.Image = ""
	}
	if opts.frame != "" {
		r.Frame = opts.frame
	}
	if opts.filter != "" {
		r.Filter = opts.filter
	}
	for _, text := range opts.texts {
		r.Captions = append(r.Captions, recipe.Caption{Text: text, Position: recipe.Position(opts.position)})
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func writeDebugOverlay(ctx context.Context, caps platform.Capabilities, s *session.Session, logger *slog.Logger) error {
	data, err := codec.EncodeBytes(s.DebugOverlay(), codec.Options{Format: codec.PNG})
	if err != nil {
		return err
	}
	location, err := caps.Persist(ctx, "meme_debug.png", data)
	if err != nil {
		return err
	}
	logger.Info("wrote debug overlay", "location", location)
	return nil
}
