package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/selimozcann/linktracer/internal/model"
	"github.com/selimozcann/linktracer/internal/output"
	"github.com/selimozcann/linktracer/internal/runner"
	"github.com/selimozcann/linktracer/internal/scanner"
	"github.com/selimozcann/linktracer/internal/trace"
)

type traceOptions struct {
	file    string
	out     string
	summary bool
	silent  bool
}

func newTraceCommand(a *app) *cobra.Command {
	var opts traceOptions

	cmd := &cobra.Command{
		Use:   "trace [url...]",
		Short: "Follow the redirect chain of one or more URLs",
		Example: `  linktracer trace https://bit.ly/example
  linktracer trace -f urls.txt -t 20 -o results.jsonl --summary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTrace(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "File with one URL per line (- for stdin)")
	flags.StringVarP(&opts.out, "output", "o", "", "Write JSONL results to this path")
	flags.BoolVar(&opts.summary, "summary", false, "Print one line per target")
	flags.BoolVar(&opts.silent, "silent", false, "Print nothing but the final tally")
	flags.IntP("threads", "t", 10, "Concurrent traces")
	_ = a.v.BindPFlag("runner.threads", flags.Lookup("threads"))

	return cmd
}

func (a *app) runTrace(cmd *cobra.Command, args []string, opts traceOptions) error {
	targets, err := collectTargets(args, opts.file)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets: pass URLs as arguments or use -f")
	}

	tracer, err := a.newTracer()
	if err != nil {
		return err
	}

	var jsonl *output.JSONLWriter
	if opts.out != "" {
		jsonl, err = output.CreateJSONL(opts.out)
		if err != nil {
			return err
		}
		defer jsonl.Close()
	}

	w := cmd.OutOrStdout()
	if !opts.silent {
		a.printBanner(cmd)
	}

	total := len(targets)
	r := runner.New(runner.Config{Threads: a.cfg.Runner.Threads}, tracer, a.logger)
	r.OnResult = func(idx int, res model.Result) {
		rec := output.BuildRecord(res)
		if jsonl != nil {
			if werr := jsonl.Write(rec); werr != nil {
				a.logger.Error("failed to write result", zap.String("target", res.Target), zap.Error(werr))
			}
		}
		switch {
		case opts.silent:
		case opts.summary:
			output.PrintSummaryLine(w, idx+1, total, rec)
		default:
			output.PrintRecord(w, idx+1, total, rec)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	results := r.Run(ctx, targets)

	if jsonl != nil {
		if err := jsonl.Flush(); err != nil {
			return fmt.Errorf("failed to flush %s: %w", opts.out, err)
		}
	}

	s := output.BuildSummary(results)
	fmt.Fprintf(w, "Done: %d targets, %d redirected, %d cross-domain, %d content redirects, %d errors\n",
		s.TotalTargets, s.Redirected, s.CrossDomain, s.ContentRedirects, s.Errors)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("trace interrupted: %w", err)
	}
	return nil
}

// collectTargets merges positional URLs with those read from file and drops
// anything that is not an absolute http(s) URL.
func collectTargets(args []string, file string) ([]string, error) {
	raw := append([]string(nil), args...)
	if file != "" {
		fromFile, err := scanner.LoadURLs(file)
		if err != nil {
			return nil, err
		}
		raw = append(raw, fromFile...)
	}

	targets := make([]string, 0, len(raw))
	for _, t := range raw {
		u, err := trace.ValidateTarget(t)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", t, err)
		}
		targets = append(targets, u.String())
	}
	return targets, nil
}
