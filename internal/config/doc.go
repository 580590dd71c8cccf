// Package config provides configuration management for course-mirror.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - The default course table
//   - Conversion to download.Options for the engine
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Seven course sources, of which Analysis II, NumCSE and
//	// Theoretische Informatik run by default
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	// A missing file yields the defaults
//
// # Selecting Sources
//
//	sources, err := settings.Select([]string{"NumCSE", "Parallel Computing"})
//	// Sources come back in the order asked for
package config
