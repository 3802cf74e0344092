// Package guard gates navigation between console routes.
//
// Guard decides, before every transition, whether the target route may be
// entered: public routes always can, protected routes need a stored session
// or are redirected to the login route. Router keeps the current route and
// its transient title, runs the guard on every Navigate, and serves as the
// request pipeline's navigator when a session expires mid-flight.
package guard
