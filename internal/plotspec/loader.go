package plotspec

import (
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/ann-bench/internal/metrics"
	"gopkg.in/yaml.v3"
)

func LoadFromFile(path string) (*PlotSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plot spec file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*PlotSpec, error) {
	var s PlotSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse plot spec YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

var validScales = map[string]bool{
	"linear": true,
	"log":    true,
}

func validate(s *PlotSpec) error {
	if len(s.Plots) == 0 {
		return fmt.Errorf("spec has no plots")
	}
	if s.OutputDir == "" {
		s.OutputDir = "plots"
	}

	fillDefaults(&s.Defaults)

	for i := range s.Plots {
		job := &s.Plots[i]
		if job.Dataset == "" {
			return fmt.Errorf("plot at index %d has no dataset", i)
		}

		if job.XAxis == "" {
			job.XAxis = s.Defaults.XAxis
		}
		if job.YAxis == "" {
			job.YAxis = s.Defaults.YAxis
		}
		if job.XScale == "" {
			job.XScale = s.Defaults.XScale
		}
		if job.YScale == "" {
			job.YScale = s.Defaults.YScale
		}
		if job.Raw == nil {
			raw := s.Defaults.Raw
			job.Raw = &raw
		}

		if _, ok := metrics.Lookup(job.XAxis); !ok {
			return fmt.Errorf("plot %q references unknown x metric %q", job.Dataset, job.XAxis)
		}
		if _, ok := metrics.Lookup(job.YAxis); !ok {
			return fmt.Errorf("plot %q references unknown y metric %q", job.Dataset, job.YAxis)
		}
		if !validScales[job.XScale] {
			return fmt.Errorf("plot %q has invalid x scale %q", job.Dataset, job.XScale)
		}
		if !validScales[job.YScale] {
			return fmt.Errorf("plot %q has invalid y scale %q", job.Dataset, job.YScale)
		}
	}
	return nil
}

func fillDefaults(d *Settings) {
	if d.XAxis == "" {
		d.XAxis = "k-nn"
	}
	if d.YAxis == "" {
		d.YAxis = "qps"
	}
	if d.XScale == "" {
		d.XScale = "linear"
	}
	if d.YScale == "" {
		d.YScale = "linear"
	}
}
