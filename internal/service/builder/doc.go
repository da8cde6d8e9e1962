// Package builder orchestrates the Windows packaging pipeline: it compiles
// localization catalogs, stages data files into a dist tree, runs the
// external freeze tool, bundles the GTK runtime and then, depending on the
// selected mode, produces a versioned release ZIP, a Windows installer via
// the external installer compiler, or both.
//
// Stages run strictly in order and every failure aborts the run; the
// staging directory must be fully populated before either packaging action
// consumes it.
package builder
