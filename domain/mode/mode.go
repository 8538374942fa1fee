package mode

type Mode int

const (
	Unknown Mode = iota
	// Probe runs the loopback scenarios and reports each result.
	Probe
	// Serve binds the configured listeners and echoes what they receive.
	Serve
	Version
)
