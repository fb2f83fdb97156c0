package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lk2023060901/blitz/internal/json"
	blog "github.com/lk2023060901/blitz/pkg/log"
	"github.com/lk2023060901/blitz/pkg/serializer"
)

var probeCmd = &cobra.Command{
	Use:   "probe <json>",
	Short: "Probe and write a JSON value through the serializer",
	Long: `Probe decodes the JSON argument into a generic value, asks the serializer
for its encoded size and dispatch path, then writes it and prints the bytes.

Numbers take the fixed path, strings the staged path and objects or arrays
the configured fallback format.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v any
		if err := json.Unmarshal([]byte(args[0]), &v); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}
		s := app.Serializer()
		switch x := v.(type) {
		case nil:
			return fmt.Errorf("null has no encoding")
		case float64:
			return probeValue(cmd, s, x)
		case bool:
			return probeValue(cmd, s, x)
		case string:
			return probeValue(cmd, s, x)
		case map[string]any:
			return probeValue(cmd, s, x)
		case []any:
			return probeValue(cmd, s, x)
		}
		return probeValue(cmd, s, v)
	},
}

// probeValue 以具体类型 T 分发，接口类型的值只会走回退路径。
func probeValue[T any](cmd *cobra.Command, s *serializer.Serializer, v T) error {
	probe, err := serializer.ProbeSize(s, v)
	if err != nil {
		return err
	}
	size, path, marker := probe.Size(), probe.Path(), probe.Marker()

	dst := make([]byte, size)
	n, err := serializer.Write(s, v, dst, 0, probe)
	if err != nil {
		return err
	}
	blog.Debug("probe written",
		blog.FieldComponent("cli"),
		zap.Stringer("path", path),
		zap.Uint32("size", n))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "type:   %T\n", v)
	fmt.Fprintf(out, "path:   %s\n", path)
	if path != serializer.PathFixed {
		fmt.Fprintf(out, "marker: %s\n", marker)
	}
	fmt.Fprintf(out, "size:   %d\n", n)
	fmt.Fprintf(out, "bytes:  %s\n", hex.EncodeToString(dst[:n]))
	return nil
}
