/*
Package ciaconv is a library for converting game assets between formats.

Besides passing images, audio and config documents through to other formats,
it decodes two legacy binary formats: AngelCode Bitmap Font Generator
descriptors (.fnt) which become config documents, and rFXGen sound
parameter files (.rfx) which become either config documents or synthesized
WAV audio.
*/
package ciaconv

import (
	"log"

	"github.com/bodgit/ciaconv/magic"
)

// Converter converts files between formats.
type Converter struct {
	signatures magic.Table
	classify   magic.Classifier
	logger     *log.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithSignatures replaces the table used to identify source files.
func WithSignatures(t magic.Table) Option {
	return func(c *Converter) {
		c.signatures = t
	}
}

// WithClassifier replaces the function used to group destination paths.
func WithClassifier(classify magic.Classifier) Option {
	return func(c *Converter) {
		c.classify = classify
	}
}

// New returns a Converter logging progress to logger.
func New(logger *log.Logger, options ...Option) *Converter {
	c := &Converter{
		signatures: magic.Default(),
		classify:   magic.Classify,
		logger:     logger,
	}
	for _, o := range options {
		o(c)
	}
	return c
}
