// Package tools exposes Spotify operations as MCP tools over stdio.
//
// The package is thin glue: each handler parses schema-validated arguments,
// calls one typed client method, and formats the response as human-readable
// text. All authorization intelligence lives in internal/auth; handlers only
// translate its error taxonomy into actionable messages for the assistant.
package tools
