// Package config defines the solver's configuration surface: the set of
// parameters the CLI exposes as flags, mirrored as a YAML file so batch
// runs can skip long command lines. Validate fills in defaults and
// collects every violation into one multierror.
package config

import (
	"io"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/graphcoloring/graphcolor/internal/coloring"
)

// Config mirrors the CLI flag surface of the solver. Fields left at their
// zero value are defaulted by Validate.
type Config struct {
	Algorithm       string `yaml:"algorithm"`
	Input           string `yaml:"input"`
	Format          string `yaml:"format"`
	Output          string `yaml:"output"`
	Certificate     string `yaml:"certificate"`
	InitialSolution string `yaml:"initial_solution"`

	TimeLimit time.Duration `yaml:"time_limit"`
	Seed      int64         `yaml:"seed"`

	VerbosityLevel int    `yaml:"verbosity_level"`
	Log            string `yaml:"log"`
	LogToStderr    bool   `yaml:"log_to_stderr"`
	OnlyWriteAtEnd bool   `yaml:"only_write_at_the_end"`

	Ordering string `yaml:"ordering"`
	Reverse  bool   `yaml:"reverse"`

	NumWorkers int `yaml:"num_workers"`

	MaximumNumberOfIterations                   int64 `yaml:"maximum_number_of_iterations"`
	MaximumNumberOfIterationsWithoutImprovement int64 `yaml:"maximum_number_of_iterations_without_improvement"`
	MaximumNumberOfImprovements                 int64 `yaml:"maximum_number_of_improvements"`
	Goal                                        int   `yaml:"goal"`

	// DisableCoreReduction turns off the k-core shrink/reinsert step of the
	// row-weighting search; it is on by default.
	DisableCoreReduction bool `yaml:"disable_core_reduction"`

	// initialSolution holds the warm-start solution once the CLI has
	// resolved InitialSolution's path to a parsed coloring.Solution; it is
	// never present in the YAML file itself.
	initialSolution *coloring.Solution `yaml:"-"`
}

// SetInitialSolution attaches a pre-parsed warm-start solution, read from
// the file named by InitialSolution, for Validate's callers to pass on to
// the row-weighting engine.
func (c *Config) SetInitialSolution(sol *coloring.Solution) { c.initialSolution = sol }

// InitialSolutionValue returns the warm-start solution set by
// SetInitialSolution, or nil if none was set.
func (c *Config) InitialSolutionValue() *coloring.Solution { return c.initialSolution }

// Load parses a YAML config file. Fields present in the CLI flags but
// absent (zero) in the file are left for Validate to default.
func Load(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, xerrors.Errorf("parsing config file: %w", err)
	}
	return &c, nil
}

// Validate checks required fields and fills in defaults, mirroring
// pagerank.Config.validate's "collect every error, default everything
// else" shape.
func (c *Config) Validate() error {
	var err error

	if c.Algorithm == "" {
		err = multierror.Append(err, xerrors.New("--algorithm is required"))
	}
	if c.Input == "" {
		err = multierror.Append(err, xerrors.New("--input is required"))
	}

	if c.Format == "" {
		c.Format = "dimacs"
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = 1
	}
	if c.VerbosityLevel < 0 {
		err = multierror.Append(err, xerrors.New("--verbosity-level must be >= 0"))
	}

	return err
}
