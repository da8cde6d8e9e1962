// Package version carries two distinct version strings: the build metadata
// of this tool itself (injected via ldflags and exposed as a cobra
// subcommand) and the packaged application's version, read once from a
// plain-text project file and used to name every produced artifact.
package version
