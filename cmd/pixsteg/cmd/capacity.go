package cmd

import (
	"fmt"
	"io"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/pixsteg/capacity"
	"github.com/spacemeshos/pixsteg/raster"
	"github.com/spacemeshos/pixsteg/shared"
)

var capacityHeader = []string{"image", "size", "channels", "max bits", "header", "usable bits", "usable"}

func newCapacityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "capacity <image>...",
		Short: "Print how many bits the images can carry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := make([][]string, 0, len(args))
			for _, path := range args {
				im, err := raster.Load(path)
				if err != nil {
					return err
				}
				report, err := capacity.Compute(im, *a.cfg)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				data = append(data, capacityRow(path, report))
			}
			renderTable(cmd.OutOrStdout(), capacityHeader, data)
			return nil
		},
	}
}

func capacityRow(path string, r *capacity.Report) []string {
	usable := r.Usable()
	return []string{
		path,
		fmt.Sprintf("%dx%d", r.Width, r.Height),
		channelString(r.Selector),
		fmt.Sprintf("%d", r.MaxBits),
		fmt.Sprintf("%d", r.HeaderWidth),
		fmt.Sprintf("%d", usable),
		bytefmt.ByteSize(usable / 8),
	}
}

func channelString(channels []shared.Channel) string {
	var sb strings.Builder
	for _, ch := range channels {
		sb.WriteString(ch.String())
	}
	return sb.String()
}

func renderTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(true)
	table.SetAutoWrapText(false)
	table.AppendBulk(data)
	table.Render()
}
