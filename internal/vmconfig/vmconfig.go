// Package vmconfig holds the small set of knobs that change how the VM
// runs without changing what a program means: pointer safety mode, the
// module search path, and which pipeline stage to stop after. None of
// these affect redshift's output — a residual AST produced under Checked
// mode is byte-for-byte the same tree produced under Release mode, since
// checked/release is the external C emitter's concern, not this core's.
package vmconfig

import "io"

// PointerMode selects checked (bounds-checked, length-carrying pointers)
// or release (bare address) codegen, per spec §9 "Pointer safety modes".
// The interpreter itself always runs in Checked mode; Release only
// affects what the (external) C emitter would produce from the residual
// AST this core hands it.
type PointerMode int

const (
	Checked PointerMode = iota
	Release
)

func (m PointerMode) String() string {
	if m == Release {
		return "release"
	}
	return "checked"
}

// Stage mirrors the CLI's stop-after flags parse / symtable / redshift /
// cwrite / compile, even though the CLI itself is out of scope — the VM
// exposes the stage enum a driver would use to decide how far to carry a
// module. There is no separate pyparse stage.
type Stage int

const (
	StageParse Stage = iota
	StageSymtable
	StageRedshift
	StageCWrite
	StageCompile
)

// Config is a plain value; construct the default with Default and adjust
// fields directly, matching the teacher's `NewVM(cfg)`-style constructors
// rather than a long options-function chain for a struct this small.
type Config struct {
	PointerMode PointerMode
	ModulePath  []string
	StopAfter   Stage
	Stdout      io.Writer
}

// Option adjusts a Config in place, for embedders that want
// functional-option call sites (vmconfig.Default(vmconfig.WithRelease(), ...)) while
// the struct itself stays a plain value underneath.
type Option func(*Config)

func WithRelease() Option { return func(c *Config) { c.PointerMode = Release } }

func WithStopAfter(s Stage) Option { return func(c *Config) { c.StopAfter = s } }

func WithModulePath(path []string) Option { return func(c *Config) { c.ModulePath = path } }

// Default returns the zero-value-safe baseline config, then applies opts.
func Default(opts ...Option) Config {
	c := Config{PointerMode: Checked, StopAfter: StageCompile}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
