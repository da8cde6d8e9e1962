package execx

import "context"

// Fake is a Runner for tests. It records every invocation in order and
// optionally delegates to RunFunc so tests can fail selected commands or
// fabricate their side effects.
type Fake struct {
	// Commands holds every invocation in execution order.
	Commands []Command
	// RunFunc, when set, is invoked after recording.
	RunFunc func(ctx context.Context, cmd Command) error
}

// Run records the command and delegates to RunFunc when present.
func (f *Fake) Run(ctx context.Context, cmd Command) error {
	f.Commands = append(f.Commands, cmd)

	if f.RunFunc != nil {
		return f.RunFunc(ctx, cmd)
	}

	return nil
}

// Names returns the executable names in invocation order.
func (f *Fake) Names() []string {
	names := make([]string, 0, len(f.Commands))
	for _, c := range f.Commands {
		names = append(names, c.Name)
	}

	return names
}
