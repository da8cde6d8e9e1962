// Package execx wraps os/exec behind a small Runner interface so pipeline
// stages can invoke external tools (catalog compiler, freeze tool,
// installer compiler) with a shared timeout, environment and output policy,
// and so tests can observe invocations without running anything.
package execx
