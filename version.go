// Package arena holds release metadata shared by the CLI and the MCP server.
package arena

// Version is the current arena release.
const Version = "v0.2.0"
