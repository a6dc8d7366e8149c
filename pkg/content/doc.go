// Package content holds the static site catalog: page metadata, navigation,
// plans, industries, tutorial levels, wizard steps, pitch slides, roadmap and
// "why us" sections.
//
// The default catalog is embedded in the binary. Other sources (for example a
// directory of markdown documents) overlay parts of it at runtime.
package content
