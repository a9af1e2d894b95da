// Package config loads the dusk configuration.
//
// A config file is TOML or YAML, chosen by extension:
//
//	[program]
//	target_fps = 60
//	idle_sleep_ms = 1
//
//	[script]
//	main = "lua/main.lua"
//	watch = true
//
//	[log]
//	level = "debug"
//
// Every setting can be overridden from the environment with the DUSK_
// prefix and the section name, e.g. DUSK_PROGRAM_TARGET_FPS=30 or
// DUSK_LOG_LEVEL=debug.
package config
