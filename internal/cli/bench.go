package cli

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lk2023060901/blitz/pkg/fixedpoint"
	"github.com/lk2023060901/blitz/pkg/serializer"
	"github.com/lk2023060901/blitz/pkg/util/conc"
)

// benchQuote 走回退路径。
type benchQuote struct {
	Symbol string            `msgpack:"symbol" json:"symbol"`
	Bid    fixedpoint.Word   `msgpack:"bid" json:"bid"`
	Ask    fixedpoint.Word   `msgpack:"ask" json:"ask"`
	Depth  []int64           `msgpack:"depth" json:"depth"`
	Tags   map[string]string `msgpack:"tags" json:"tags"`
}

type benchResult struct {
	path  serializer.Path
	bytes uint32
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Write sample values on every path from a worker pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		workers, _ := cmd.Flags().GetInt("workers")
		n, _ := cmd.Flags().GetInt("n")
		if workers <= 0 || n <= 0 {
			return fmt.Errorf("workers and n must be positive")
		}

		start := time.Now()
		results, err := runBench(app.Serializer(), workers, n)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		byPath := lo.GroupBy(results, func(r benchResult) serializer.Path { return r.path })
		out := cmd.OutOrStdout()
		for _, path := range []serializer.Path{serializer.PathFixed, serializer.PathStaged, serializer.PathFallback} {
			rs := byPath[path]
			total := lo.SumBy(rs, func(r benchResult) uint64 { return uint64(r.bytes) })
			fmt.Fprintf(out, "%-8s writes=%d bytes=%d\n", path, len(rs), total)
		}
		fmt.Fprintf(out, "elapsed  %s (%.0f writes/s)\n", elapsed, float64(len(results))/elapsed.Seconds())

		app.Logger("bench").Info("bench finished",
			zap.Int("workers", workers),
			zap.Int("writes", len(results)),
			zap.Duration("elapsed", elapsed))
		return nil
	},
}

func init() {
	benchCmd.Flags().Int("workers", 4, "number of pool workers")
	benchCmd.Flags().Int("n", 10000, "number of writes per path")
}

// runBench 在 workers 个协程上为每条路径各写 n 次。
func runBench(s *serializer.Serializer, workers, n int) ([]benchResult, error) {
	pool := conc.NewPool[benchResult](workers)
	defer pool.Release()

	quote := benchQuote{
		Symbol: "BTC-USDT",
		Bid:    fixedpoint.Must(2, 6512345),
		Ask:    fixedpoint.Must(2, 6512399),
		Depth:  []int64{10, 20, 40, 80},
		Tags:   map[string]string{"venue": "spot"},
	}

	futures := make([]*conc.Future[benchResult], 0, 3*n)
	for i := 0; i < n; i++ {
		price := fixedpoint.Must(4, int64(i))
		label := fmt.Sprintf("order-%d", i)
		futures = append(futures,
			pool.Submit(func() (benchResult, error) { return writeOnce(s, price) }),
			pool.Submit(func() (benchResult, error) { return writeOnce(s, label) }),
			pool.Submit(func() (benchResult, error) { return writeOnce(s, &quote) }),
		)
	}
	if err := conc.AwaitAll(futures...); err != nil {
		return nil, err
	}
	return lo.Map(futures, func(f *conc.Future[benchResult], _ int) benchResult { return f.Value() }), nil
}

func writeOnce[T any](s *serializer.Serializer, v T) (benchResult, error) {
	probe, err := serializer.ProbeSize(s, v)
	if err != nil {
		return benchResult{}, err
	}
	path := probe.Path()
	dst := make([]byte, probe.Size())
	written, err := serializer.Write(s, v, dst, 0, probe)
	if err != nil {
		return benchResult{}, err
	}
	return benchResult{path: path, bytes: written}, nil
}
