package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const methodInfo = `LSB steganography over a sparse pixel grid.

The payload is prefixed with a big-endian length header and written into the
low-order bits of the selected channels of every pixel whose coordinates are
multiples of the sparseness, column by column. Each channel takes "greed"
bits. The header is just wide enough to count the capacity of the image:
  capacity = floor(width / sparseness) * floor(height / sparseness) * greed * channels

A header equal to the capacity means the payload filled (or overflowed) the
image. Extraction must use the same sparseness, greed and channels, and the
image must stay in a lossless format (png, bmp or tiff).

Parameters:
  --sparseness  pixel stride in both axes (default 10)
  --greed       low-order bits used per channel, 0 to 8 (default 2)
  --channels    channels used per pixel, e.g. B, GRB or RGBA (default B)`

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the embedding method",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), methodInfo)
			return nil
		},
	}
}
