// Package main hosts the edgectl CLI entrypoint and command graph.
//
// Each command stands in for one console view. Commands that touch protected
// gateway data declare the route they belong to through the edgectl/route
// annotation; the root command navigates the router to that route before the
// command body runs, so a missing session stops the command the same way the
// console bounces the browser to its login page.
//
// Keep this package lean: behaviour lives in the internal packages, and
// commands only parse flags, call the gateway client, and format output.
package main
