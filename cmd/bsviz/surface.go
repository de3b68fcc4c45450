package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JMcKesey/black-scholes-visualizer/internal/pricing"
	"github.com/JMcKesey/black-scholes-visualizer/internal/surface"
)

func surfaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surface",
		Short: "Generate a PnL surface over spot and volatility",
		Long: `Sweep the option price over a spot and volatility grid and report each
cell's profit or loss against the purchase price.

Without --out the grid renders as a table. With --out the extension picks the
format: .json or .csv, with a .zst suffix for zstd compression.

Examples:
  # Configured sweep, rendered to the terminal
  bsviz surface

  # Denser grid written to a compressed file
  bsviz surface --samples 50 --out pnl.json.zst

  # Put side of the same scenario as CSV
  bsviz surface --kind put --out pnl.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := resolveParams(cmd)
			if err != nil {
				return err
			}

			sweep := cfg.Surface
			flags := cmd.Flags()
			if flags.Changed("spot-min") {
				sweep.SpotMin, _ = flags.GetFloat64("spot-min")
			}
			if flags.Changed("spot-max") {
				sweep.SpotMax, _ = flags.GetFloat64("spot-max")
			}
			if flags.Changed("vol-min") {
				sweep.VolMin, _ = flags.GetFloat64("vol-min")
			}
			if flags.Changed("vol-max") {
				sweep.VolMax, _ = flags.GetFloat64("vol-max")
			}
			if flags.Changed("purchase") {
				sweep.PurchasePrice, _ = flags.GetFloat64("purchase")
			}
			if flags.Changed("samples") {
				sweep.Samples, _ = flags.GetInt("samples")
			}

			surf, err := surface.Generate(params,
				surface.Range{Min: sweep.SpotMin, Max: sweep.SpotMax},
				surface.Range{Min: sweep.VolMin, Max: sweep.VolMax},
				sweep.PurchasePrice, sweep.Samples)
			if err != nil {
				return err
			}

			logger.Debug("generated surface",
				zap.String("kind", params.Kind.String()),
				zap.Int("samples", sweep.Samples),
			)

			out, _ := flags.GetString("out")
			if out == "" {
				renderTable(os.Stdout, surf, params.Kind)
				return nil
			}
			return writeSurfaceFile(out, surf)
		},
	}

	addOptionFlags(cmd)
	cmd.Flags().Float64("spot-min", 0, "minimum spot price of the sweep")
	cmd.Flags().Float64("spot-max", 0, "maximum spot price of the sweep")
	cmd.Flags().Float64("vol-min", 0, "minimum volatility of the sweep")
	cmd.Flags().Float64("vol-max", 0, "maximum volatility of the sweep")
	cmd.Flags().Float64("purchase", 0, "purchase price subtracted from every cell")
	cmd.Flags().Int("samples", 0, "per-axis grid resolution")
	cmd.Flags().String("out", "", "output file (.json, .csv; add .zst to compress)")

	return cmd
}

// renderTable prints the grid with spot columns and volatility rows, spot
// ascending left to right and volatility top to bottom.
func renderTable(w io.Writer, s *surface.Surface, kind pricing.OptionKind) {
	fmt.Fprintf(w, "PnL surface (%s)\n", kind)

	fmt.Fprintf(w, "%8s", "vol\\spot")
	for _, spot := range s.Spots {
		fmt.Fprintf(w, " %9.2f", spot)
	}
	fmt.Fprintln(w)

	for i, vol := range s.Vols {
		fmt.Fprintf(w, "%8.4f", vol)
		for _, cell := range s.PnL[i] {
			fmt.Fprintf(w, " %+9.2f", cell)
		}
		fmt.Fprintln(w)
	}
}

// writeSurfaceFile writes the surface to path, picking the codec from the
// file extension and compressing when the name carries a .zst suffix.
func writeSurfaceFile(path string, s *surface.Surface) error {
	base := path
	compress := strings.HasSuffix(path, ".zst")
	if compress {
		base = strings.TrimSuffix(path, ".zst")
	}

	ext := filepath.Ext(base)
	if ext != ".json" && ext != ".csv" {
		return fmt.Errorf("unsupported output format %q (use .json or .csv)", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	if compress {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("creating zstd writer: %w", err)
		}
		defer zw.Close()
		w = zw
	}

	switch ext {
	case ".json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	case ".csv":
		if err := writeCSV(w, s); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	return nil
}

func writeCSV(w io.Writer, s *surface.Surface) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(s.Spots)+1)
	header = append(header, "vol")
	for _, spot := range s.Spots {
		header = append(header, strconv.FormatFloat(spot, 'g', -1, 64))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(s.Spots)+1)
	for i, vol := range s.Vols {
		row[0] = strconv.FormatFloat(vol, 'g', -1, 64)
		for j, cell := range s.PnL[i] {
			row[j+1] = strconv.FormatFloat(cell, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
