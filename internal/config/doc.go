package config

// Package config loads the CLI configuration: defaults, an optional YAML
// file, and YTQUEUE_-prefixed environment overrides, in that order.
