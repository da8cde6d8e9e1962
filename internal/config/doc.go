// Package config defines the packaging pipeline settings shared by all
// stages: project layout, external tool invocations, and the output root.
//
// Settings are loaded from a YAML file with sane defaults for a standard
// CHIRP checkout, and machine-specific paths (GTK root, installer compiler)
// can be overridden through the environment or an optional .env file.
package config
