package plotspec

// PlotSpec is a YAML description of a batch of charts to render in one
// invocation.
type PlotSpec struct {
	OutputDir string    `yaml:"output_dir"`
	Defaults  Settings  `yaml:"defaults"`
	Plots     []PlotJob `yaml:"plots"`
}

type Settings struct {
	XAxis  string `yaml:"x_axis"`
	YAxis  string `yaml:"y_axis"`
	XScale string `yaml:"x_scale"`
	YScale string `yaml:"y_scale"`
	Raw    bool   `yaml:"raw"`
}

type PlotJob struct {
	Dataset   string `yaml:"dataset"`
	XAxis     string `yaml:"x_axis"`
	YAxis     string `yaml:"y_axis"`
	XScale    string `yaml:"x_scale"`
	YScale    string `yaml:"y_scale"`
	Raw       *bool  `yaml:"raw"`
	Batch     bool   `yaml:"batch"`
	Algorithm string `yaml:"algorithm"`
	Output    string `yaml:"output"`
}
