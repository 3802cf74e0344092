package session

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrCorrupt marks a persisted record that could not be used. It is logged,
// never returned from Load.
var ErrCorrupt = errors.New("session record corrupt")

var errMissingToken = errors.New("session token is required")

// Info is the persisted login state.
type Info struct {
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
	Token       string   `json:"token"`
}

// Store is the persistence boundary for Info.
type Store interface {
	// Load returns the stored session, or false when none is usable.
	Load() (Info, bool)
	// Save replaces any stored session.
	Save(Info) error
	// Clear removes the stored session. It never fails.
	Clear()
}

// Valid reports whether the record carries a token.
func (i Info) Valid() bool {
	return strings.TrimSpace(i.Token) != ""
}

// HasPermission reports whether the permission list grants p. A "*" entry
// grants everything.
func (i Info) HasPermission(p string) bool {
	return slices.Contains(i.Permissions, p) || slices.Contains(i.Permissions, "*")
}

// ExpiresAt returns the token's exp claim. Tokens that are not JWTs, or that
// carry no exp, report false.
func (i Info) ExpiresAt() (time.Time, bool) {
	if !i.Valid() {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(i.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (i Info) clone() Info {
	i.Permissions = slices.Clone(i.Permissions)
	return i
}

// decodeRecord parses a stored record. The token may sit at the top level or
// under data.token, which is the shape of a raw login response.
func decodeRecord(data []byte) (Info, error) {
	var record struct {
		Info
		Data *Info `json:"data"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return Info{}, errors.Join(ErrCorrupt, err)
	}
	info := record.Info
	if !info.Valid() && record.Data != nil && record.Data.Valid() {
		info = *record.Data
		if info.Username == "" {
			info.Username = record.Username
		}
		if info.Permissions == nil {
			info.Permissions = record.Permissions
		}
	}
	if !info.Valid() {
		return Info{}, errors.Join(ErrCorrupt, errors.New("missing token"))
	}
	return info, nil
}
