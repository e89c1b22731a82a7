// Package config loads, normalizes, and validates rrlfit configuration data.
package config
