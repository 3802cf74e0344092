// Package gateway wraps the gateway management REST API.
//
// Every call goes through the request pipeline, so session headers, expiry
// handling, and failure notices apply uniformly. The client decodes the
// gateway's {code, msg, data} envelope; a code other than "0" is a business
// rejection reported as ErrRejected. Login performs the nonce handshake and
// persists the returned session; Logout always clears it.
package gateway
