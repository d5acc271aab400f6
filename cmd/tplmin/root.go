package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"time"

	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/log"
	"bennypowers.dev/tplmin/internal/transform"
	"bennypowers.dev/tplmin/internal/watch"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
)

// watchDelay is how long a batch of file changes stays open
const watchDelay = 100 * time.Millisecond

type runOptions struct {
	configPath string
	write      bool
	outDir     string
	jobs       int
	watch      bool
	logLevel   string
}

func readFlags(cmd *cobra.Command) (runOptions, error) {
	var opts runOptions
	var err error
	flags := cmd.Flags()
	if opts.configPath, err = flags.GetString("config"); err != nil {
		return opts, err
	}
	if opts.write, err = flags.GetBool("write"); err != nil {
		return opts, err
	}
	if opts.outDir, err = flags.GetString("out-dir"); err != nil {
		return opts, err
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.watch, err = flags.GetBool("watch"); err != nil {
		return opts, err
	}
	if opts.logLevel, err = flags.GetString("log-level"); err != nil {
		return opts, err
	}
	if opts.write && opts.outDir != "" {
		return opts, errors.New("--write and --out-dir are mutually exclusive")
	}
	if opts.jobs <= 0 {
		opts.jobs = runtime.GOMAXPROCS(0)
	}
	return opts, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	opts, err := readFlags(cmd)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	tr, err := transform.New(&cfg, transform.WithSink(&consoleSink{w: cmd.ErrOrStderr()}))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if log.Enabled(log.LevelDebug) {
		log.Debug("tracking modules %v", tr.Rules().Modules())
	}

	files, err := expand(args)
	if err != nil {
		return err
	}
	if len(files) == 0 && !opts.watch {
		return fmt.Errorf("no files match %v", args)
	}
	if len(files) > 1 && !opts.write && opts.outDir == "" {
		return errors.New("several files matched; use --write or --out-dir")
	}

	r := &runner{
		transformer: tr,
		opts:        opts,
		stdout:      cmd.OutOrStdout(),
		stderr:      cmd.ErrOrStderr(),
	}
	failed := r.process(cmd.Context(), files)

	if opts.watch {
		return r.watch(cmd.Context(), args)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// loadConfig reads the named config file, or the default one in the working
// directory when present
func loadConfig(path string) (config.Options, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return config.Options{}, err
		}
		path = config.Find(cwd)
		if path == "" {
			log.Warn("no config file found; no templates will be minified")
			return config.Options{}, nil
		}
	}
	log.Debug("using config %s", path)
	return config.Load(path)
}

type runner struct {
	transformer *transform.Transformer
	opts        runOptions
	stdout      io.Writer
	stderr      io.Writer
}

type fileResult struct {
	code    []byte
	changed bool
	stats   transform.Stats
	err     error
}

// process transforms files concurrently and reports in input order. It
// returns the number of failed files.
func (r *runner) process(ctx context.Context, files []string) int {
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = fileResult{err: err}
				return nil
			}
			results[i] = r.processFile(path)
			return nil
		})
	}
	_ = g.Wait()

	var total transform.Stats
	failed, changed := 0, 0
	for i, res := range results {
		if res.err == nil && !r.opts.write && r.opts.outDir == "" {
			if _, err := r.stdout.Write(res.code); err != nil {
				res.err = fmt.Errorf("writing %s to stdout: %w", files[i], err)
			}
		}
		if res.err != nil {
			failed++
			errorColor.Fprintln(r.stderr, res.err)
			continue
		}
		total.Add(res.stats)
		if res.changed {
			changed++
		}
	}
	log.Info("%d files (%d changed, %d failed): %d templates minified, %d kept as written",
		len(files), changed, failed, total.Rewritten, total.Skipped)
	return failed
}

func (r *runner) processFile(path string) fileResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return fileResult{err: err}
	}
	result, err := r.transformer.Transform(path, source)
	if err != nil {
		return fileResult{err: err}
	}
	res := fileResult{
		code:    result.Code,
		changed: string(result.Code) != string(source),
		stats:   result.Stats,
	}

	switch {
	case r.opts.write:
		if res.changed {
			if err := writeFile(path, result.Code); err != nil {
				return fileResult{err: err}
			}
			log.Debug("rewrote %s", path)
		}
	case r.opts.outDir != "":
		target, err := outputPath(r.opts.outDir, path)
		if err != nil {
			return fileResult{err: err}
		}
		if err := writeFile(target, result.Code); err != nil {
			return fileResult{err: err}
		}
	}
	return res
}

// watch processes matching files again whenever they change, until
// interrupted
func (r *runner) watch(ctx context.Context, patterns []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := watch.New(matcher(patterns), watchDelay)
	if err != nil {
		return err
	}
	defer w.Close()
	for _, root := range watchRoots(patterns) {
		if err := w.AddRecursive(root); err != nil {
			return err
		}
	}

	log.Info("watching %v", patterns)
	err = w.Run(ctx, func(paths []string) {
		r.process(ctx, paths)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// consoleSink prints diagnostics in color
type consoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *consoleSink) Warn(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	warnColor.Fprintln(s.w, message)
}
