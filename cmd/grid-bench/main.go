// Command grid-bench renders a large interactive grid in the terminal and
// measures how fast it keeps up, then analyzes and ships the frame logs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"github.com/rezi-ui/bench/grid-bench/internal/analyze"
	"github.com/rezi-ui/bench/grid-bench/internal/baseline"
	"github.com/rezi-ui/bench/grid-bench/internal/bench"
	"github.com/rezi-ui/bench/grid-bench/internal/config"
	"github.com/rezi-ui/bench/grid-bench/internal/diag"
	"github.com/rezi-ui/bench/grid-bench/internal/export"
	"github.com/rezi-ui/bench/grid-bench/internal/metrics"
)

const (
	defaultLogFile = "grid-bench.log"
	defaultDB      = ".grid-bench"
)

type benchResultFile struct {
	OK    bool          `json:"ok"`
	Data  *bench.Result `json:"data,omitempty"`
	Error string        `json:"error,omitempty"`
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: %s [klog flags] <command> [flags] [args]

Commands:
  run                     show the grid until quit (default); -headless
                          times scripted frames without a terminal
  analyze FILE            summarize a frame log (.csv, .csv.zst, .parquet)
  archive FILE            compress a frame log with zstd
  parquet FILE OUT        convert a frame log to parquet
  upload -bucket B FILE   copy a frame log to S3 compatible storage
`, filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	command := "run"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	if err := dispatch(ctx, command, args, os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			klog.ErrorS(err, "Command failed", "command", command)
		}
		klog.Flush()
		stop()
		os.Exit(1)
	}
	klog.Flush()
}

func dispatch(ctx context.Context, command string, args []string, stdout io.Writer) error {
	switch command {
	case "run":
		redirectLogs()
		return runGrid(ctx, args, stdout)
	case "analyze":
		return runAnalyze(args, stdout)
	case "archive":
		return runArchive(args, stdout)
	case "parquet":
		return runParquet(args, stdout)
	case "upload":
		return runUpload(ctx, args, stdout)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// redirectLogs keeps klog off the terminal while the grid owns it, unless
// the user chose a destination.
func redirectLogs() {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	defaults := []struct{ name, value string }{
		{"logtostderr", "false"},
		{"log_file", defaultLogFile},
		{"stderrthreshold", "FATAL"},
	}
	for _, d := range defaults {
		if set[d.name] {
			continue
		}
		if err := flag.Set(d.name, d.value); err != nil {
			klog.V(2).InfoS("Could not set log flag", "flag", d.name, "err", err)
		}
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func runGrid(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("run")
	duration := fs.Duration("duration", 0, "quit after this long (0 runs until quit)")
	diagnostics := fs.Bool("diagnostics", false, "use the diagnostics renderer and write frame_log.csv")
	resultPath := fs.String("result-path", "", "write the JSON result here instead of stdout")
	headless := fs.Bool("headless", false, "drive scripted frames without a terminal")
	defaults := bench.DefaultHeadlessOptions()
	warmup := fs.Int("warmup", defaults.Warmup, "headless: untimed frames before measuring")
	iterations := fs.Int("iterations", defaults.Iterations, "headless: timed frames")
	columns := fs.Int("cols", defaults.Columns, "headless: virtual terminal columns")
	lines := fs.Int("lines", defaults.Lines, "headless: virtual terminal lines")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.LoadFromEnv()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Duration = *duration
		case "diagnostics":
			cfg.Diagnostics = *diagnostics
		}
	})

	var sink *diag.Sink
	if cfg.Diagnostics {
		sink = diag.Default()
	}
	exporter := metrics.NewExporter(sink)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := exporter.Serve(ctx, cfg.MetricsAddr); err != nil {
				klog.ErrorS(err, "Metrics server failed", "addr", cfg.MetricsAddr)
			}
		}()
	}

	var (
		result bench.Result
		err    error
	)
	if *headless {
		result, err = bench.RunHeadless(ctx, cfg, bench.HeadlessOptions{
			Warmup:     *warmup,
			Iterations: *iterations,
			Columns:    *columns,
			Lines:      *lines,
		}, exporter)
	} else {
		result, err = bench.Run(ctx, cfg, exporter)
	}
	if err != nil {
		_ = emit(stdout, *resultPath, benchResultFile{OK: false, Error: err.Error()})
		return err
	}
	if *resultPath != "" {
		fmt.Fprintf(stdout, "Rendered %d frames at %.0f FPS (%dx%d, %d cells)\n",
			result.Frames, result.RenderFPS, result.Rows, result.Columns, result.Cells)
	}
	return emit(stdout, *resultPath, benchResultFile{OK: true, Data: &result})
}

func emit(stdout io.Writer, resultPath string, payload benchResultFile) error {
	serialized, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if resultPath != "" {
		if err := os.WriteFile(resultPath, serialized, 0o644); err != nil {
			return fmt.Errorf("write result %s: %w", resultPath, err)
		}
		return nil
	}
	_, err = stdout.Write(append(serialized, '\n'))
	return err
}

func runAnalyze(args []string, stdout io.Writer) error {
	fs := newFlagSet("analyze")
	warmup := fs.Int("warmup", analyze.DefaultWarmup, "frames to drop from the start of the log")
	format := fs.String("format", analyze.FormatText, "report format: text, json or yaml")
	save := fs.String("save", "", "save the result as a named baseline")
	compare := fs.String("compare", "", "compare against a named baseline")
	db := fs.String("db", defaultDB, "baseline store directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("analyze needs exactly one frame log")
	}
	path := fs.Arg(0)

	frames, err := analyze.LoadFile(path)
	if err != nil {
		return err
	}
	stats, err := analyze.Analyze(frames, *warmup)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", path, err)
	}
	report := analyze.Report{Label: "Analysis of " + filepath.Base(path), Stats: stats}

	if *save != "" || *compare != "" {
		store, err := baseline.Open(*db)
		if err != nil {
			return err
		}
		defer store.Close()

		if *compare != "" {
			before, err := store.Load(*compare)
			if err != nil {
				return err
			}
			c := analyze.Compare(*compare, before.Stats, stats)
			report.Comparison = &c
		}
		if *save != "" {
			entry := baseline.Entry{Name: *save, Source: path, SavedAt: time.Now(), Stats: stats}
			if err := store.Save(entry); err != nil {
				return fmt.Errorf("save baseline %s: %w", *save, err)
			}
			klog.V(1).InfoS("Saved baseline", "name", *save, "frames", stats.TotalFrames)
		}
	}

	return analyze.WriteReport(stdout, report, *format)
}

func runArchive(args []string, stdout io.Writer) error {
	fs := newFlagSet("archive")
	out := fs.String("o", "", "archive path (default FILE"+export.ArchiveExt+")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("archive needs exactly one frame log")
	}
	src := fs.Arg(0)
	dst := *out
	if dst == "" {
		dst = src + export.ArchiveExt
	}

	size, err := export.Archive(src, dst)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s -> %s (%s)\n", src, dst, diag.FormatBytes(uint64(size)))
	return nil
}

func runParquet(args []string, stdout io.Writer) error {
	fs := newFlagSet("parquet")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("parquet needs a frame log and an output path")
	}
	src, dst := fs.Arg(0), fs.Arg(1)

	frames, err := analyze.LoadFile(src)
	if err != nil {
		return err
	}
	if err := export.WriteParquet(frames, dst); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s -> %s (%d frames)\n", src, dst, len(frames))
	return nil
}

func runUpload(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("upload")
	bucket := fs.String("bucket", "", "destination bucket")
	key := fs.String("key", "", "object key (default: file name)")
	endpoint := fs.String("endpoint", "", "S3 compatible endpoint URL")
	region := fs.String("region", "", "bucket region")
	accessKey := fs.String("access-key", os.Getenv("GRID_BENCH_S3_ACCESS_KEY"), "static access key (default: AWS credential chain)")
	secretKey := fs.String("secret-key", os.Getenv("GRID_BENCH_S3_SECRET_KEY"), "static secret key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("upload needs exactly one file")
	}

	uploader, err := export.NewUploader(ctx, export.UploadConfig{
		Bucket:    *bucket,
		Endpoint:  *endpoint,
		Region:    *region,
		AccessKey: *accessKey,
		SecretKey: *secretKey,
	})
	if err != nil {
		return err
	}
	used, err := uploader.Upload(ctx, *key, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "uploaded %s to s3://%s/%s\n", fs.Arg(0), *bucket, used)
	return nil
}
