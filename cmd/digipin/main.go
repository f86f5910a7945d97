package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/digipin/internal/core/model"
	gridmapper "github.com/mohammed-shakir/digipin/internal/mapper/grid"
	"github.com/mohammed-shakir/digipin/internal/overlay"
	"github.com/mohammed-shakir/digipin/pkg/digipin"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "digipin",
		Short:         "Encode and decode DIGIPIN codes",
		Long:          `Converts between latitude/longitude and 10-symbol DIGIPIN codes, inspects cells and benchmarks the codec.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newEncodeCmd(),
		newDecodeCmd(),
		newBoundsCmd(),
		newParentCmd(),
		newChildrenCmd(),
		newGridCmd(),
		newBenchCmd(),
	)
	return root
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <lat> <lon>",
		Short: "Encode a coordinate into a DIGIPIN code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("latitude %q: %w", args[0], err)
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("longitude %q: %w", args[1], err)
			}
			code, err := digipin.Encode(lat, lon)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), code)
			return err
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <code>",
		Short: "Decode a DIGIPIN code into the center of its cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ll, err := digipin.Decode(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				strconv.FormatFloat(ll.Latitude, 'f', -1, 64),
				strconv.FormatFloat(ll.Longitude, 'f', -1, 64))
			return err
		},
	}
}

func newBoundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bounds <prefix>",
		Short: "Print the cell of a code or code prefix as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := digipin.Bounds(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Level  int            `json:"level"`
				Bounds digipin.Cell   `json:"bounds"`
				Center digipin.LatLng `json:"center"`
			}{digipin.Level(args[0]), c, c.Center()})
		},
	}
}

func newParentCmd() *cobra.Command {
	var level int
	cmd := &cobra.Command{
		Use:   "parent <code>",
		Short: "Print the prefix of a code at a shallower level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := gridmapper.New(0).ToParent(args[0], level)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), digipin.Format(p))
			return err
		},
	}
	cmd.Flags().IntVarP(&level, "level", "l", 6, "Parent level (0..10)")
	return cmd
}

func newChildrenCmd() *cobra.Command {
	var (
		level    int
		maxCells int
	)
	cmd := &cobra.Command{
		Use:   "children <prefix>",
		Short: "Print every descendant of a prefix at a deeper level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("level") {
				level = digipin.Level(args[0]) + 1
			}
			kids, err := gridmapper.New(maxCells).ToChildren(args[0], level)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, k := range kids {
				if _, err := fmt.Fprintln(out, digipin.Format(k)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&level, "level", "l", 0, "Child level (defaults to one below the prefix)")
	cmd.Flags().IntVar(&maxCells, "max-cells", gridmapper.DefaultMaxCells, "Refuse to print more children than this")
	return cmd
}

func newGridCmd() *cobra.Command {
	var (
		bbox     string
		level    int
		maxCells int
	)
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the GeoJSON overlay of all cells covering a bbox",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bb, err := parseBBox(bbox)
			if err != nil {
				return err
			}
			cells, err := gridmapper.New(maxCells).CellsForBBox(bb, level)
			if err != nil {
				return err
			}
			b, err := overlay.Marshal(bb, cells)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().StringVar(&bbox, "bbox", "", "minLon,minLat,maxLon,maxLat")
	cmd.Flags().IntVarP(&level, "level", "l", 4, "Code level (1..10)")
	cmd.Flags().IntVar(&maxCells, "max-cells", gridmapper.DefaultMaxCells, "Refuse overlays with more cells than this")
	_ = cmd.MarkFlagRequired("bbox")
	return cmd
}

func newBenchCmd() *cobra.Command {
	var (
		n       int
		workers int
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark encode+decode round trips over random points",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if n <= 0 || workers <= 0 {
				return fmt.Errorf("points and workers must be positive")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running %d round trips using %d workers...\n", n, workers)
			res, err := runBench(n, workers, seed)
			if err != nil {
				return err
			}
			res.Print(out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "points", "n", 100000, "Number of random points")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	return cmd
}

func parseBBox(s string) (model.BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return model.BBox{}, fmt.Errorf("bbox %q: want minLon,minLat,maxLon,maxLat", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model.BBox{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	return model.BBox{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}
