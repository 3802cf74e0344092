// Package preflight provides readiness checks for the gateway and the local
// paths edgectl depends on.
//
// The CLI "edgectl status" command runs RunAll and renders one line per
// Result. Checks never publish notifications; a failing check is reported,
// not raised.
package preflight
