/*
Package log provides structured logging for honeycomb-go using zerolog.

The package wraps zerolog to give every subsystem (the map engine, the
grid builder, the snapshot store, the CLI) a component-scoped child
logger, a global level filter, and a choice between JSON and
human-readable console output.

# Usage

Initializing the logger:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Simple logging:

	log.Info("grid generation complete")
	log.Errorf("failed to open snapshot database", err) // err is attached as the "error" field

Structured, component-scoped logging:

	buildLog := log.WithComponent("builder")
	buildLog.Info().Int("n_darts", n).Msg("reserved darts for hex grid")

	dartLog := log.WithDart(uint32(d))
	dartLog.Debug().Msg("dart released back to the free list")

# Context loggers

WithComponent tags every line with a subsystem name ("builder",
"snapshot", "stm"). WithInstanceID and WithDart narrow further to a
single map instance or a single dart, which is useful when several
maps are being built or validated concurrently and their log lines
would otherwise interleave indistinguishably.

# Design notes

A single package-level Logger, set once by Init before any other
package logs, avoids threading a logger through every constructor in
the module. Structured fields (.Str, .Int, .Err) are preferred over
string interpolation throughout the codebase so that log lines stay
greppable and parseable once JSON output is enabled.
*/
package log
