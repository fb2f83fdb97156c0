package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/lk2023060901/blitz/pkg/fixedpoint"
)

var priceCmd = &cobra.Command{
	Use:         "price",
	Short:       "Encode and decode fixed-point price words",
	Annotations: map[string]string{skipBootstrap: "true"},
}

var priceEncodeCmd = &cobra.Command{
	Use:         "encode <value>",
	Short:       "Encode a decimal value into an 8 byte word",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		precision, _ := cmd.Flags().GetUint8("precision")
		d, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("parse %q: %w", args[0], err)
		}
		w, err := fixedpoint.FromDecimal(d, precision)
		if err != nil {
			return err
		}
		buf := make([]byte, fixedpoint.Size)
		if err := fixedpoint.PutWord(buf, w); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "value:    %s\n", w)
		fmt.Fprintf(out, "exponent: %d\n", w.Exponent())
		fmt.Fprintf(out, "mantissa: %d\n", w.Mantissa())
		fmt.Fprintf(out, "bytes:    %s\n", hex.EncodeToString(buf))
		return nil
	},
}

var priceDecodeCmd = &cobra.Command{
	Use:         "decode <hex>",
	Short:       "Decode an 8 byte little-endian word",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("decode hex: %w", err)
		}
		if len(raw) != fixedpoint.Size {
			return fmt.Errorf("expected %d bytes, got %d", fixedpoint.Size, len(raw))
		}
		w, err := fixedpoint.ReadWord(raw)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "value:    %s\n", w)
		fmt.Fprintf(out, "exponent: %d\n", w.Exponent())
		fmt.Fprintf(out, "mantissa: %d\n", w.Mantissa())
		fmt.Fprintf(out, "float64:  %g\n", w.Float64())
		return nil
	},
}

func init() {
	priceEncodeCmd.Flags().Uint8P("precision", "p", 2, "number of decimal places kept in the word (0-15)")

	priceCmd.AddCommand(priceEncodeCmd)
	priceCmd.AddCommand(priceDecodeCmd)
}
