package reconcile

import "fmt"

// Config holds the reconciliation options loaded from the environment.
type Config struct {
	// Replace selects replace semantics for existing loads instead of add.
	Replace bool `mapstructure:"replace" default:"true"`
	// AutoRemove removes keys present in the baseline but absent from the source.
	AutoRemove bool `mapstructure:"auto_remove" default:"false"`
	// DryRun prepares and diffs without writing to the model.
	DryRun bool `mapstructure:"dry_run" default:"false"`
	// Duplicates is the duplicate key policy (last-wins, first-wins, reject, keep-all).
	Duplicates string `mapstructure:"duplicates" default:"last-wins"`
	// Tolerance is the relative tolerance for supplied absolute distances.
	Tolerance float64 `mapstructure:"tolerance" default:"1e-6"`
	// MinLength is the smallest usable reference length.
	MinLength float64 `mapstructure:"min_length" default:"1e-9"`
	// LocalBelow is the first direction code in global axes.
	LocalBelow int `mapstructure:"local_below" default:"4"`
	// TypeMin, TypeMax and TypeDefault bound the load type code.
	TypeMin     int `mapstructure:"type_min" default:"1"`
	TypeMax     int `mapstructure:"type_max" default:"2"`
	TypeDefault int `mapstructure:"type_default" default:"1"`
	// DirectionMin, DirectionMax and DirectionDefault bound the direction code.
	DirectionMin     int `mapstructure:"direction_min" default:"1"`
	DirectionMax     int `mapstructure:"direction_max" default:"11"`
	DirectionDefault int `mapstructure:"direction_default" default:"10"`
}

// Options controls a single reconciliation run.
type Options struct {
	Replace    bool
	AutoRemove bool
	DryRun     bool
	Duplicates DuplicatePolicy
	Codes      CodeRules
	Normalizer Normalizer
	Layout     Layout
}

// DefaultOptions returns replace mode with the default rules and layout.
func DefaultOptions() Options {
	return Options{
		Replace:    true,
		Duplicates: DuplicatesLastWins,
		Codes:      DefaultCodeRules(),
		Normalizer: DefaultNormalizer(),
		Layout:     DefaultLayout(),
	}
}

// Options converts the configuration and validates it.
func (c Config) Options() (Options, error) {
	opts := Options{
		Replace:    c.Replace,
		AutoRemove: c.AutoRemove,
		DryRun:     c.DryRun,
		Duplicates: DuplicatePolicy(c.Duplicates),
		Codes: CodeRules{
			Type:       CodeRange{Min: c.TypeMin, Max: c.TypeMax, Default: c.TypeDefault},
			Direction:  CodeRange{Min: c.DirectionMin, Max: c.DirectionMax, Default: c.DirectionDefault},
			LocalBelow: c.LocalBelow,
		},
		Normalizer: Normalizer{MinLength: c.MinLength, Tolerance: c.Tolerance},
		Layout:     DefaultLayout(),
	}
	if opts.Duplicates == "" {
		opts.Duplicates = DuplicatesLastWins
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks option consistency.
func (o Options) Validate() error {
	if !o.Duplicates.Valid() {
		return &ConfigurationError{Field: "duplicates", Reason: fmt.Sprintf("unknown policy %q", o.Duplicates)}
	}
	if !o.Codes.Type.valid() {
		return &ConfigurationError{Field: "type", Reason: fmt.Sprintf("invalid code range %+v", o.Codes.Type)}
	}
	if !o.Codes.Direction.valid() {
		return &ConfigurationError{Field: "direction", Reason: fmt.Sprintf("invalid code range %+v", o.Codes.Direction)}
	}
	if !finite(o.Normalizer.MinLength) || o.Normalizer.MinLength < 0 {
		return &ConfigurationError{Field: "min_length", Reason: "must be a non-negative number"}
	}
	if !finite(o.Normalizer.Tolerance) || o.Normalizer.Tolerance < 0 {
		return &ConfigurationError{Field: "tolerance", Reason: "must be a non-negative number"}
	}
	return o.Layout.Validate()
}
