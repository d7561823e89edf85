// Package runtimeflags holds the flags that configure the compiler and the
// runtime.  Flags given on the command line override a configuration file.
package runtimeflags

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/brimdata/spl/compiler"
	"github.com/brimdata/spl/runtime"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
)

type Flags struct {
	Metrics bool

	configPath string
	overrides  []func(*compiler.Config)
	conf       compiler.Config
	registry   *prometheus.Registry
	metrics    *runtime.Metrics
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "YAML file of compiler settings")
	f.intFlag(fs, "P", "number of distribution units for eval (0 for none)", func(c *compiler.Config, n int) {
		c.Parallelism = n
	})
	f.intFlag(fs, "sort.limit", "maximum records held by sort without a count (negative for no limit)", func(c *compiler.Config, n int) {
		c.SortLimit = n
	})
	f.intFlag(fs, "batchsize", "number of records per source batch", func(c *compiler.Config, n int) {
		c.BatchSize = n
	})
	f.intFlag(fs, "percentile.threshold", "number of values above which percentiles are estimated", func(c *compiler.Config, n int) {
		c.PercentileThreshold = n
	})
	fs.BoolVar(&f.Metrics, "metrics", false, "display runtime metrics on stderr when done")
}

func (f *Flags) intFlag(fs *flag.FlagSet, name, usage string, set func(*compiler.Config, int)) {
	fs.Func(name, usage, func(s string) error {
		var n int
		if _, err := fmt.Sscan(s, &n); err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		f.overrides = append(f.overrides, func(c *compiler.Config) { set(c, n) })
		return nil
	})
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	if f.configPath != "" {
		conf, err := compiler.LoadConfig(f.configPath)
		if err != nil {
			return fmt.Errorf("%s: %w", f.configPath, err)
		}
		f.conf = conf
	}
	for _, override := range f.overrides {
		override(&f.conf)
	}
	if f.conf.Parallelism < 0 {
		return fmt.Errorf("parallelism must be zero or more")
	}
	f.registry = prometheus.NewRegistry()
	f.metrics = runtime.NewMetrics(f.registry)
	return nil
}

func (f *Flags) Config() compiler.Config {
	return f.conf
}

// Registry returns the registry of the metrics of the queries run by the
// command.  Init must be called first.
func (f *Flags) Registry() *prometheus.Registry {
	return f.registry
}

// NewContext returns a runtime context for a query that counts into the
// command's metrics.  Init must be called first.
func (f *Flags) NewContext(ctx context.Context, logger *zap.Logger) *runtime.Context {
	return runtime.NewContext(ctx, runtime.WithLogger(logger), runtime.WithMetrics(f.metrics))
}

// PrintMetrics writes the counters gathered from the registry if the
// -metrics flag was given.
func (f *Flags) PrintMetrics(w io.Writer) error {
	if !f.Metrics || f.registry == nil {
		return nil
	}
	families, err := f.registry.Gather()
	if err != nil {
		return err
	}
	return WriteMetrics(w, families)
}

// WriteMetrics writes one line per counter or gauge of families in the
// form "name{label="value"} value".
func WriteMetrics(w io.Writer, families []*dto.MetricFamily) error {
	slices.SortFunc(families, func(a, b *dto.MetricFamily) int {
		return strings.Compare(a.GetName(), b.GetName())
	})
	for _, family := range families {
		for _, m := range family.GetMetric() {
			var val float64
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				val = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				val = m.GetGauge().GetValue()
			default:
				continue
			}
			if _, err := fmt.Fprintf(w, "%s%s %g\n", family.GetName(), labels(m), val); err != nil {
				return err
			}
		}
	}
	return nil
}

func labels(m *dto.Metric) string {
	pairs := m.GetLabel()
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('{')
	for k, pair := range pairs {
		if k > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%q", pair.GetName(), pair.GetValue())
	}
	b.WriteByte('}')
	return b.String()
}
