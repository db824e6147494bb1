package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/drone/envsubst"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/flagext"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/robotsym/crashsym/pkg/symbolizer"
)

type configSource struct {
	path          string
	expandEnv     bool
	toolchainRoot string
}

// loadConfig applies flag defaults, then the YAML file, then the toolchain
// root override.
func loadConfig(fs afero.Fs, src configSource) (symbolizer.Config, error) {
	var c symbolizer.Config
	flagext.DefaultValues(&c)

	if src.path != "" {
		buf, err := afero.ReadFile(fs, src.path)
		if err != nil {
			return c, fmt.Errorf("read config file: %w", err)
		}
		if src.expandEnv {
			s, err := envsubst.EvalEnv(string(buf))
			if err != nil {
				return c, fmt.Errorf("expand environment in config file %s: %w", src.path, err)
			}
			buf = []byte(s)
		}

		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return c, fmt.Errorf("parse config file %s: %w", src.path, err)
		}
	}
	if src.toolchainRoot != "" {
		c.Readers.ToolchainRoot = src.toolchainRoot
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func logMetrics(g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		level.Warn(logger).Log("msg", "failed to gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			kv := []interface{}{"msg", "metric", "name", mf.GetName()}
			for _, l := range m.GetLabel() {
				kv = append(kv, l.GetName(), l.GetValue())
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				kv = append(kv, "value", m.GetCounter().GetValue())
			case dto.MetricType_HISTOGRAM:
				kv = append(kv, "count", m.GetHistogram().GetSampleCount(), "sum", m.GetHistogram().GetSampleSum())
			default:
				continue
			}
			level.Debug(logger).Log(kv...)
		}
	}
}
