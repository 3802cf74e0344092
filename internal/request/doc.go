// Package request is the authenticated HTTP pipeline every gateway call goes
// through.
//
// Before a request leaves, the pipeline loads the stored session and attaches
// the `token` and `Authorization: Bearer` headers. After the response arrives
// it classifies the outcome as Success, AuthExpired, or OtherFailure. An
// expired session is cleared, the navigator is sent back to the login route
// once, and a localized notice is published. Other failures publish the most
// specific message the gateway or transport provided.
//
// Send returns the tagged Result; Do is the (body, error) convenience form.
package request
