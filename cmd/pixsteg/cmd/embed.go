package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/pixsteg/bitstream"
	"github.com/spacemeshos/pixsteg/embedding"
	"github.com/spacemeshos/pixsteg/payload"
	"github.com/spacemeshos/pixsteg/raster"
)

type embedFlags struct {
	text     string
	file     string
	output   string
	compress bool
}

func newEmbedCmd(a *app) *cobra.Command {
	var f embedFlags

	embedCmd := &cobra.Command{
		Use:   "embed <carrier>",
		Short: "Embed a message or a file into an image",
		Long: `Embed writes an ASCII message (--text) or a file (--file) into the carrier
image and saves the result losslessly. PNG, JPEG, BMP, TIFF and WebP carriers
are accepted; the output defaults to <carrier>_corrupted.png.

Files are wrapped into an envelope keeping their name and checksum, and
optionally compressed (--compress).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEmbed(cmd, args[0], f)
		},
	}

	flags := embedCmd.Flags()
	flags.StringVarP(&f.text, "text", "t", "", "ASCII message to embed")
	flags.StringVarP(&f.file, "file", "f", "", "File to embed")
	flags.StringVarP(&f.output, "output", "o", "", "Output image path (.png, .bmp or .tiff)")
	flags.BoolVar(&f.compress, "compress", false, "Compress the file before embedding")
	embedCmd.MarkFlagsMutuallyExclusive("text", "file")

	return embedCmd
}

func (a *app) runEmbed(cmd *cobra.Command, carrier string, f embedFlags) error {
	bits, err := loadPayload(f)
	if err != nil {
		return err
	}

	im, err := raster.Load(carrier)
	if err != nil {
		return err
	}
	if err := raster.AcceptCarrier(im.Format(), false); err != nil {
		return err
	}

	output := f.output
	if output == "" {
		output = raster.StegoPath(carrier)
	}
	format, err := raster.FormatFromPath(output)
	if err != nil {
		return err
	}
	if err := raster.AcceptCarrier(format, true); err != nil {
		return err
	}

	leftover, err := embedding.Embed(bits, im, *a.cfg, embedding.WithLogger(a.logger))
	if err != nil {
		return err
	}

	if err := raster.Save(output, im); err != nil {
		return err
	}
	a.logger.Info("payload embedded",
		zap.String("carrier", carrier),
		zap.String("output", output),
		zap.Int("payload_bits", bits.Len()),
		zap.Int("leftover_bits", leftover.Len()),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Message was successfully embedded!\nStego image path: %s\n", output)
	if !leftover.Empty() {
		fmt.Fprintf(out, "%d bits did not fit in\n", leftover.Len())
		if f.file != "" {
			fmt.Fprintln(out, "The file is truncated and can't be restored: use a larger carrier or a higher greed")
		}
	}
	return nil
}

func loadPayload(f embedFlags) (*bitstream.Stream, error) {
	switch {
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return nil, err
		}
		return payload.Seal(filepath.Base(f.file), data, f.compress)
	case f.text != "":
		return payload.FromASCII(f.text)
	default:
		return nil, errors.New("nothing to embed: use --text or --file")
	}
}
