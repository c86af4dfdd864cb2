// Command simulate plays many independent random-move games in parallel,
// accumulates per-game statistics and optionally writes each run to Parquet.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/exp/rand"

	"github.com/brensch/snakeboard/game"
	"github.com/brensch/snakeboard/logging"
	"github.com/brensch/snakeboard/rules"
	"github.com/brensch/snakeboard/stats"
	"github.com/brensch/snakeboard/store"
)

type options struct {
	rows, cols int
	games      int
	workers    int
	seed       int64
	maxMoves   int
	strict     bool
	outDir     string
	flushGames int
	summary    bool
	timeout    time.Duration
	logFormat  string
	logLevel   string
}

func main() {
	var o options
	flag.IntVar(&o.rows, "rows", getEnvIntOrDefault("ROWS", 10), "Board rows")
	flag.IntVar(&o.cols, "cols", getEnvIntOrDefault("COLS", 10), "Board columns")
	flag.IntVar(&o.games, "games", getEnvIntOrDefault("GAMES", 1000), "Number of games to play")
	flag.IntVar(&o.workers, "workers", getEnvIntOrDefault("WORKERS", 8), "Parallel workers, each owning its own boards")
	flag.Int64Var(&o.seed, "seed", int64(getEnvIntOrDefault("SEED", 0)), "Base RNG seed (0 = time based)")
	flag.IntVar(&o.maxMoves, "max-moves", getEnvIntOrDefault("MAX_MOVES", 10000), "Stop a game after this many moves (0 = unlimited)")
	flag.BoolVar(&o.strict, "strict", getEnvBoolOrDefault("STRICT", true), "Reject reversal moves")
	flag.StringVar(&o.outDir, "out-dir", getEnvOrDefault("OUT_DIR", ""), "Directory for run .parquet files (empty = don't write)")
	flag.IntVar(&o.flushGames, "flush-games", getEnvIntOrDefault("FLUSH_GAMES", 500), "Finalize a parquet file after this many games")
	flag.BoolVar(&o.summary, "summary", getEnvBoolOrDefault("SUMMARY", true), "Query written runs with DuckDB at the end")
	flag.DurationVar(&o.timeout, "timeout", getEnvDurationOrDefault("TIMEOUT", 0), "Abort after this long (0 = no limit)")
	flag.StringVar(&o.logFormat, "log-format", getEnvOrDefault("LOG_FORMAT", "pretty"), "pretty, json or text")
	flag.StringVar(&o.logLevel, "log-level", getEnvOrDefault("LOG_LEVEL", "info"), "debug, info, warn or error")
	flag.Parse()

	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger, err := logging.New(os.Stderr, o.logFormat, level)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	if err := run(ctx, o, logger); err != nil {
		logger.Error("simulation failed", "err", err)
		os.Exit(1)
	}
}

// normalize fills defaults and rejects options no board can be built from.
func (o *options) normalize() error {
	if _, _, err := game.Dimensions(o.rows, o.cols); err != nil {
		return fmt.Errorf("-rows/-cols: %w", err)
	}
	if o.maxMoves < 0 || o.maxMoves > math.MaxInt32 {
		return fmt.Errorf("-max-moves %d out of range", o.maxMoves)
	}
	if o.workers <= 0 {
		o.workers = 1
	}
	if o.seed == 0 {
		o.seed = time.Now().UnixNano()
	}
	return nil
}

func run(ctx context.Context, o options, logger *slog.Logger) error {
	if err := o.normalize(); err != nil {
		return err
	}
	rows, cols, _ := game.Dimensions(o.rows, o.cols)

	sample, err := stats.NewSample(rules.ObservationColumns...)
	if err != nil {
		return err
	}

	logger.Info("starting simulation",
		"rows", o.rows, "cols", o.cols, "games", o.games,
		"workers", o.workers, "seed", o.seed, "out_dir", o.outDir)

	var writeReqs chan store.RunRow
	writerDone := make(chan error, 1)
	if o.outDir != "" {
		writeReqs = make(chan store.RunRow, o.workers*4)
		go func() {
			writerDone <- parquetWriterLoop(o.outDir, o.flushGames, writeReqs, logger)
		}()
	} else {
		writerDone <- nil
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	errs := make(chan error, o.workers)
	start := time.Now()

	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			wlog := logger.With("worker", workerID)
			for {
				id := next.Add(1)
				if id > int64(o.games) || ctx.Err() != nil {
					return
				}
				row, err := playOne(ctx, o, rows, cols, id, sample, wlog)
				if err != nil {
					if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
						errs <- fmt.Errorf("game %d: %w", id, err)
					}
					return
				}
				if writeReqs != nil {
					writeReqs <- row
				}
			}
		}(w)
	}

	wg.Wait()
	close(errs)
	if writeReqs != nil {
		close(writeReqs)
	}
	writeErr := <-writerDone

	var runErr error
	for err := range errs {
		runErr = errors.Join(runErr, err)
	}
	runErr = errors.Join(runErr, writeErr)

	report(sample, time.Since(start), logger)

	summarize(ctx, o, sample.Len(), logger)
	return runErr
}

// summarize logs the DuckDB per-outcome view of the written runs. An
// interrupted or timed-out run skips it; it reports whether the query ran.
func summarize(ctx context.Context, o options, games int, logger *slog.Logger) bool {
	if o.outDir == "" || !o.summary || games == 0 {
		return false
	}
	if err := ctx.Err(); err != nil {
		logger.Info("skipping duckdb summary", "reason", err)
		return false
	}
	summaries, err := store.Summarize(ctx, o.outDir)
	if err != nil {
		logger.Warn("duckdb summary failed", "err", err)
		return true
	}
	for _, s := range summaries {
		logger.Info("outcome summary",
			"outcome", s.Outcome, "games", s.Games,
			"mean_score", s.MeanScore, "max_score", s.MaxScore, "mean_moves", s.MeanMoves)
	}
	return true
}

// playOne runs game id on a board owned only by the calling worker.
func playOne(ctx context.Context, o options, rows, cols int32, id int64, sink stats.Sink, logger *slog.Logger) (store.RunRow, error) {
	seed := o.seed + id*1000003
	rng := rand.New(rand.NewSource(uint64(seed)))

	b, err := game.NewBoard(rows, cols, game.WithRand(rng))
	if err != nil {
		return store.RunRow{}, err
	}
	res, err := rules.Play(ctx, b, rules.RandomChooser{Rand: rng}, rules.Config{
		MaxMoves: int32(o.maxMoves),
		Strict:   o.strict,
		Rand:     rng,
		Sink:     sink,
		Logger:   logger.With("game", id),
	})
	if err != nil {
		return store.RunRow{}, err
	}
	return store.NewRunRow(fmt.Sprintf("sim_%d_%d", o.seed, id), seed, b, res, "random"), nil
}

// parquetWriterLoop streams rows into a BatchWriter, finalizing a file every
// flushGames rows and once more when in is closed. It keeps draining in after
// a write error so workers never block.
func parquetWriterLoop(outDir string, flushGames int, in <-chan store.RunRow, logger *slog.Logger) error {
	if flushGames <= 0 {
		flushGames = 500
	}

	w, err := store.NewBatchWriter(outDir)
	if err != nil {
		for range in {
		}
		return err
	}

	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}
	flush := func(final bool) {
		pending := w.Pending()
		outPath, n, err := w.Flush()
		if err != nil {
			logger.Error("parquet flush failed", "games", pending, "final", final, "err", err)
			fail(err)
			return
		}
		if n > 0 {
			logger.Info("parquet flush ok", "path", outPath, "games", n, "final", final)
		}
	}

	for row := range in {
		if err := w.Write(row); err != nil {
			logger.Error("parquet write failed", "run_id", row.RunID, "err", err)
			fail(err)
			continue
		}
		if w.Pending() >= flushGames {
			flush(false)
		}
	}
	flush(true)
	if _, _, err := w.Close(); err != nil {
		fail(err)
	}
	logger.Info("parquet writer done", "files", len(w.Files()), "games", w.Rows())
	return firstErr
}

func report(sample *stats.Sample, elapsed time.Duration, logger *slog.Logger) {
	n := sample.Len()
	if n == 0 {
		logger.Warn("no games completed")
		return
	}
	meanScore, _ := sample.Mean("score")
	sdScore, _ := sample.StdDev("score")
	meanMoves, _ := sample.Mean("moves")
	sdMoves, _ := sample.StdDev("moves")
	totalScore, _ := sample.CumulativeSum("score")
	totalMoves, _ := sample.CumulativeSum("moves")

	logger.Info("simulation complete",
		"games", n,
		"elapsed", elapsed.Round(time.Millisecond),
		"games_per_sec", float64(n)/elapsed.Seconds(),
		"mean_score", meanScore,
		"stddev_score", sdScore,
		"mean_moves", meanMoves,
		"stddev_moves", sdMoves,
		"total_apples", totalScore,
		"total_moves", totalMoves,
	)
}
