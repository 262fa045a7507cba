package plotspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	spec, err := Parse([]byte(`
defaults:
  y_scale: log
plots:
  - dataset: glove-100-angular
  - dataset: sift-128-euclidean
    x_axis: qps
    y_axis: p95
    y_scale: linear
`))
	require.NoError(t, err)

	assert.Equal(t, "plots", spec.OutputDir)
	require.Len(t, spec.Plots, 2)

	first := spec.Plots[0]
	assert.Equal(t, "k-nn", first.XAxis)
	assert.Equal(t, "qps", first.YAxis)
	assert.Equal(t, "linear", first.XScale)
	assert.Equal(t, "log", first.YScale)
	require.NotNil(t, first.Raw)
	assert.False(t, *first.Raw)

	second := spec.Plots[1]
	assert.Equal(t, "qps", second.XAxis)
	assert.Equal(t, "p95", second.YAxis)
	assert.Equal(t, "linear", second.YScale)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "no plots",
			yaml: `output_dir: plots`,
			want: "no plots",
		},
		{
			name: "missing dataset",
			yaml: "plots:\n  - x_axis: k-nn",
			want: "no dataset",
		},
		{
			name: "unknown metric",
			yaml: "plots:\n  - dataset: d\n    x_axis: nope",
			want: "unknown x metric",
		},
		{
			name: "invalid scale",
			yaml: "plots:\n  - dataset: d\n    y_scale: logit",
			want: "invalid y scale",
		},
		{
			name: "not yaml",
			yaml: `{{`,
			want: "parse plot spec YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
