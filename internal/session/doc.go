// Package session persists the operator's login credentials.
//
// A session is a single record holding the username, permission list, and
// bearer token returned by the gateway at login. FileStore keeps it in a JSON
// file guarded by an advisory lock; MemoryStore backs tests and in-process
// scenarios. Load fails closed: a missing, unreadable, or token-less record is
// reported as absent and, where a record existed, removed.
package session
