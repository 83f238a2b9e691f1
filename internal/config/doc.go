// Package config provides configuration management for photocanvas.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Conversion to the canvas config and interpolator used by the compositor
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// 1200px wide white canvas, 12px gutter, 16px corners
//	// PNG exports into the working directory
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.Background = "#1e1e2e"
//	err := settings.Save(config.DefaultPath())
package config
