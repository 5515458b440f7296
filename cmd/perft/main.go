// Command perft counts legal move tree leaves for a position and reports
// its status, for checking the move generator against reference numbers.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
)

type config struct {
	fen        string
	moves      string
	depth      int
	divide     bool
	parallel   int
	cache      string
	cacheSize  int64
	logLevel   string
	cpuprofile string
}

// envDefault returns the environment value for key, or def when unset.
func envDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)

	depth, err := strconv.Atoi(envDefault("CHESSCORE_DEPTH", "0"))
	if err != nil {
		return nil, fmt.Errorf("CHESSCORE_DEPTH: %w", err)
	}

	fs.StringVar(&cfg.fen, "fen", envDefault("CHESSCORE_FEN", board.StartFEN), "FEN string (defaults to initial position)")
	fs.StringVar(&cfg.moves, "moves", "", "space separated coordinate moves to play before counting")
	fs.IntVar(&cfg.depth, "depth", depth, "perft depth; 0 only prints the position status")
	fs.BoolVar(&cfg.divide, "divide", false, "print per-move node counts at root")
	fs.IntVar(&cfg.parallel, "parallel", runtime.NumCPU(), "number of root moves counted concurrently")
	fs.StringVar(&cfg.cache, "cache", "none", "transposition cache: none, memory or badger")
	fs.Int64Var(&cfg.cacheSize, "cache-size", 1<<20, "memory cache capacity in entries")
	fs.StringVar(&cfg.logLevel, "log-level", envDefault("CHESSCORE_LOG_LEVEL", "info"), "log level")
	fs.StringVar(&cfg.cpuprofile, "cpuprofile", "", "write cpu profile to file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.cpuprofile == "" {
		cfg.cpuprofile = os.Getenv("CPUPROFILE")
	}
	if cfg.depth < 0 {
		return nil, fmt.Errorf("-depth must be >= 0, got %d", cfg.depth)
	}
	return cfg, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger(), nil
}

// openCache returns the configured cache and a function releasing it.
func openCache(cfg *config) (perft.Cache, func(), error) {
	switch cfg.cache {
	case "", "none":
		return nil, func() {}, nil
	case "memory":
		c, err := perft.NewMemoryCache(cfg.cacheSize)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case "badger":
		s, err := storage.Open()
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache %q", cfg.cache)
	}
}

func status(pos *board.Position) string {
	switch {
	case pos.IsCheckmate():
		return "checkmate"
	case pos.IsStalemate():
		return "stalemate"
	case pos.IsFiftyMoveDraw():
		return "draw by fifty-move rule"
	case pos.HasInsufficientMaterial():
		return "draw by insufficient material"
	case pos.IsCheck():
		return "check"
	default:
		return "in play"
	}
}

func run(ctx context.Context, cfg *config, out io.Writer, logger zerolog.Logger) error {
	pos, err := board.ParseFEN(cfg.fen)
	if err != nil {
		return err
	}
	for _, s := range strings.Fields(cfg.moves) {
		m, err := pos.ParseMove(s)
		if err != nil {
			return err
		}
		if pos, err = pos.Apply(m); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "%s\nFEN: %s\nStatus: %s\nLegal moves: %d\n", pos, pos.FEN(), status(pos), len(pos.LegalMoves()))
	if cfg.depth == 0 {
		return nil
	}

	cache, release, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer release()

	counter := &perft.Counter{Cache: cache, Workers: cfg.parallel, Logger: logger}
	stats := board.MagicStats()
	logger.Debug().Int("attempts", stats.Total).Int("max", stats.Max).Msg("magic tables ready")
	logger.Info().Int("depth", cfg.depth).Str("cache", cfg.cache).Int("workers", cfg.parallel).Msg("counting")

	start := time.Now()
	div, err := counter.Divide(ctx, pos, cfg.depth)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if cfg.divide {
		for _, m := range div.Sorted() {
			fmt.Fprintf(out, "%s: %d\n", m, div.Moves[m])
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Nodes: %d\n", div.Total)
	logger.Info().Uint64("nodes", div.Total).Dur("elapsed", elapsed).
		Float64("nps", float64(div.Total)/elapsed.Seconds()).Msg("done")
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid log level:", err)
		os.Exit(2)
	}
	board.SetLogger(logger)
	board.DebugMoveValidation = logger.GetLevel() <= zerolog.DebugLevel

	// Start CPU profiling if requested (via flag or environment variable)
	if cfg.cpuprofile != "" {
		f, err := os.Create(cfg.cpuprofile)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		logger.Info().Str("path", cfg.cpuprofile).Msg("CPU profiling enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("perft failed")
		stop()
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}
