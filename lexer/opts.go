// SPDX-License-Identifier: MIT
package lexer

import (
	"github.com/sirupsen/logrus"
)

type (
	// Opts defines the markers shared by the export format's writer & the Lexer.
	Opts struct {
		Debug     bool
		EndMarker rune
		Splitter  rune
		Logger    logrus.FieldLogger
	}
)

const (
	// DefEndMarker a `rune` indicating the end of an employee's subordinates.
	DefEndMarker = ')'

	// DefSplitter is the `rune` preceding a subordinate's identifier.
	DefSplitter = ','

	emptyRune rune = 0
)

// NewOpts configures the lexer's Opts.
func NewOpts() *Opts {
	return &Opts{
		EndMarker: DefEndMarker,
		Splitter:  DefSplitter,
		Logger:    logrus.New(),
	}
}

// Validate populates missing Opts entries with defaults.
func (o *Opts) Validate() {
	if o.EndMarker == emptyRune {
		o.EndMarker = DefEndMarker
	}
	if o.Splitter == emptyRune {
		o.Splitter = DefSplitter
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
}

// Options converts the Opts into Lexer functional options.
func (o *Opts) Options() []Option {
	o.Validate()

	return []Option{
		WithDebug(o.Debug),
		WithEndMarker(o.EndMarker),
		WithSplitter(o.Splitter),
		WithLogger(o.Logger),
	}
}
