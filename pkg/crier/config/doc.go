/*
Package config reads typed values out of decoded YAML or JSON maps.

# Overview

Settings files decode into map[string]any, and pulling values out of
one by hand costs a type assertion and a nil check at every step.
Config wraps the map once; each accessor names the type it wants plus
a default to fall back on, and never fails.

# Basic Usage

	cfg := config.New(map[string]any{
	    "name":    "orders",
	    "timeout": "5s",
	    "retries": 3,
	})

	name := cfg.String("name", "crier")             // "orders"
	timeout := cfg.Duration("timeout", time.Second) // 5s
	retries := cfg.Int("retries", 1)                // 3
	verbose := cfg.Bool("verbose", false)           // false (missing)

# Sections

Grouped settings decode as nested maps. Section extracts one group as
its own Config:

	observability:
	  metrics: true
	  tracing: false

	obs := cfg.Section("observability")
	metrics := obs.Bool("metrics", false) // true

A missing or non-map section comes back empty rather than failing, so
lookups chain safely.

# Coercion Rules

Duration accepts a time.ParseDuration string such as "30s" or "1h30m",
a bare number of seconds (int or float64), or a time.Duration value.
Int narrows int64 and takes a float64 only when it has no fractional
part. Float widens ints. Anything else, including a conversion that
would drop precision, falls back to the default.

# File Loading

FromFile picks a decoder by extension (.yaml, .yml, or .json):

	cfg, err := config.FromFile("crier.yaml")
	if err != nil {
	    log.Fatal(err)
	}

FromYAML and FromJSON decode byte slices directly.

# Thread Safety

A Config never writes to its map, so concurrent reads are safe as long
as no caller mutates the original map underneath it.
*/
package config
