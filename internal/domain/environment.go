package domain

// BaseEnvironmentLabel is shown for the base environment whatever its name.
const BaseEnvironmentLabel = "No Environment"

// Vars is a key/value store used for templating and runtime variable resolution.
type Vars map[string]string

// Environment defines variables for a given runtime context (dev/stg/prod).
// The base environment of a workspace is the "no environment" sentinel;
// sub-environments layer on top of it.
type Environment struct {
	ID    string
	Name  string
	Color string // empty when unset
	Vars  Vars
}

// Merge merges base and override vars (override wins) and returns a new map.
func Merge(base Vars, override Vars) Vars {
	out := Vars{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// ResolveActive returns the active environment among base and subs.
// Unknown or empty ids fall back to the base environment.
func ResolveActive(base Environment, subs []Environment, activeID string) Environment {
	for _, e := range subs {
		if e.ID == activeID && activeID != "" {
			return e
		}
	}
	return base
}
