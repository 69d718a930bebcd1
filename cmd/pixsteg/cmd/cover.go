package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacemeshos/pixsteg/raster"
)

type coverFlags struct {
	width  int
	height int
	color  string
	noise  bool
	seed   int64
	alpha  bool
	output string
}

func newCoverCmd() *cobra.Command {
	var f coverFlags

	coverCmd := &cobra.Command{
		Use:   "cover",
		Short: "Generate a carrier image",
		Long: `Cover writes a solid (--color) or random noise (--noise) image, handy as a
carrier for experiments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.width < 1 || f.height < 1 {
				return fmt.Errorf("invalid size; expected: >= 1x1, given: %dx%d", f.width, f.height)
			}

			var im *raster.Image
			if f.noise {
				im = raster.NewNoise(f.width, f.height, f.seed, f.alpha)
			} else {
				var err error
				if im, err = raster.NewSolid(f.width, f.height, f.color, f.alpha); err != nil {
					return err
				}
			}

			if err := raster.Save(f.output, im); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cover image path: %s\n", f.output)
			return nil
		},
	}

	flags := coverCmd.Flags()
	flags.IntVar(&f.width, "width", 100, "Image width")
	flags.IntVar(&f.height, "height", 100, "Image height")
	flags.StringVar(&f.color, "color", "random", "Fill color, #rrggbb or random")
	flags.BoolVar(&f.noise, "noise", false, "Fill with random noise instead of a solid color")
	flags.Int64Var(&f.seed, "seed", 1, "Noise seed")
	flags.BoolVar(&f.alpha, "alpha", false, "Add an alpha channel")
	flags.StringVarP(&f.output, "output", "o", "cover.png", "Output image path (.png, .bmp or .tiff)")
	coverCmd.MarkFlagsMutuallyExclusive("color", "noise")

	return coverCmd
}
