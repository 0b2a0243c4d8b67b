// Package logging provides the structured logging boundary for spotify-mcp.
//
// All subsystems emit leveled, subsystem-tagged log entries through this
// package instead of writing to stdout directly. This matters because the
// MCP server speaks its wire protocol over stdout: any stray print would
// corrupt the stream. Diagnostics therefore go to stderr via log/slog.
package logging
