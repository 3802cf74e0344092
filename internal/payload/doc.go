// Package payload decodes and inspects raw device and protocol byte payloads.
//
// Payloads arrive from the gateway as base64 text. The package decodes them,
// renders hex dumps, sniffs well-known file types by magic number, and saves
// buffers to the download directory.
package payload
