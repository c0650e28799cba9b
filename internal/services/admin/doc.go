// Package admin hosts the library operator dashboard.
//
// The server mounts the embedded stylesheet, the sign-in and sign-out form
// handlers, and the history-mode navigation handler that runs the route
// guard on every page request.
package admin
