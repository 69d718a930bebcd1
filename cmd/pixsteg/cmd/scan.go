package cmd

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/pixsteg/extraction"
	"github.com/spacemeshos/pixsteg/payload"
	"github.com/spacemeshos/pixsteg/raster"
)

const previewLen = 32

var scanHeader = []string{"image", "declared bits", "read bits", "status", "content"}

type scanResult struct {
	path   string
	result *extraction.Result
	err    error
}

func newScanCmd(a *app) *cobra.Command {
	var workers int

	scanCmd := &cobra.Command{
		Use:   "scan <image>...",
		Short: "Extract from many images concurrently and summarize what they carry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers < 1 {
				return fmt.Errorf("invalid `workers`; expected: >= 1, given: %d", workers)
			}

			results, err := a.scan(cmd.Context(), args, workers)
			if err != nil {
				return err
			}

			data := make([][]string, 0, len(results))
			for _, res := range results {
				data = append(data, scanRow(res))
			}
			renderTable(cmd.OutOrStdout(), scanHeader, data)
			return nil
		},
	}

	scanCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Number of images processed concurrently")
	return scanCmd
}

// scan extracts from every path, at most workers at a time. Per image errors
// are reported in the results; only a cancelled context fails the scan.
func (a *app) scan(ctx context.Context, paths []string, workers int) ([]scanResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]scanResult, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			results[i] = scanResult{path: path}
			im, err := raster.Load(path)
			if err == nil {
				err = raster.AcceptCarrier(im.Format(), true)
			}
			if err == nil {
				results[i].result, err = extraction.Extract(im, *a.cfg, extraction.WithLogger(a.logger))
			}
			if err != nil {
				a.logger.Debug("scan failed", zap.String("image", path), zap.Error(err))
				results[i].err = err
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanRow(res scanResult) []string {
	if res.err != nil {
		return []string{res.path, "-", "-", "error", res.err.Error()}
	}

	r := res.result
	status := "ok"
	switch {
	case !r.HeaderRead:
		status = "no header"
	case r.Short():
		status = "short"
	case r.FullCapacity():
		status = "full"
	}

	return []string{
		res.path,
		fmt.Sprintf("%d", r.DeclaredLen),
		fmt.Sprintf("%d", r.Bits.Len()),
		status,
		preview(r),
	}
}

func preview(r *extraction.Result) string {
	if payload.IsEnvelope(r.Bits) {
		env, err := payload.Open(r.Bits)
		if err != nil {
			return fmt.Sprintf("envelope: %v", err)
		}
		return fmt.Sprintf("file %s (%d bytes)", env.Name, len(env.Data))
	}

	text := payload.ToASCII(r.Bits)
	text = strings.Map(func(c rune) rune {
		if c < 0x20 || c > 0x7e {
			return '.'
		}
		return c
	}, text)
	if len(text) > previewLen {
		text = text[:previewLen] + "..."
	}
	return text
}
