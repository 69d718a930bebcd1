package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/pixsteg/extraction"
	"github.com/spacemeshos/pixsteg/payload"
	"github.com/spacemeshos/pixsteg/raster"
)

const defaultPayloadName = "payload.bin"

type extractFlags struct {
	output string
	raw    bool
}

func newExtractCmd(a *app) *cobra.Command {
	var f extractFlags

	extractCmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Pluck out a message or a file from an image",
		Long: `Extract reads back the payload of an image produced by embed, using the same
sparseness, greed and channels. Envelopes are restored to a file named after
the embedded one (or --output); other payloads are printed as ASCII text,
or written as is with --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args[0], f)
		},
	}

	flags := extractCmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "Write the payload to this file")
	flags.BoolVar(&f.raw, "raw", false, "Don't unwrap envelopes")

	return extractCmd
}

func (a *app) runExtract(cmd *cobra.Command, image string, f extractFlags) error {
	im, err := raster.Load(image)
	if err != nil {
		return err
	}
	if err := raster.AcceptCarrier(im.Format(), true); err != nil {
		return err
	}

	res, err := extraction.Extract(im, *a.cfg, extraction.WithLogger(a.logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Short() {
		fmt.Fprintf(out, "Warning: read %d of %d declared bits\n", res.Bits.Len(), res.DeclaredLen)
	}

	if payload.IsEnvelope(res.Bits) && !f.raw {
		env, err := payload.Open(res.Bits)
		if err != nil {
			return err
		}

		output := f.output
		if output == "" {
			output = filepath.Base(env.Name)
			if output == "." || output == string(filepath.Separator) {
				output = defaultPayloadName
			}
		}
		if err := atomic.WriteFile(output, bytes.NewReader(env.Data)); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}

		a.logger.Info("envelope restored", zap.String("name", env.Name), zap.Int("size", len(env.Data)))
		fmt.Fprintf(out, "Plucked out file: %s (%d bytes)\n", output, len(env.Data))
		return nil
	}

	if f.output != "" {
		if err := atomic.WriteFile(f.output, bytes.NewReader(res.Bits.Bytes())); err != nil {
			return fmt.Errorf("write %s: %w", f.output, err)
		}
		fmt.Fprintf(out, "Plucked out %d bits: %s\n", res.Bits.Len(), f.output)
		return nil
	}

	fmt.Fprintf(out, "Plucked out message:\n%s\n", payload.ToASCII(res.Bits))
	return nil
}
