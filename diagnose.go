// Package diagnose holds shared metadata for the diagnose tool.
package diagnose

// Version is the current release version.
const Version = "0.2.0"
