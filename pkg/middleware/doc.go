// Package middleware provides observability hooks that attach to a Router's
// navigation lifecycle: Prometheus metrics and OpenTelemetry traces.
//
// Each hook registers listeners through Router.ListenFor and returns a
// detach func that removes them again.
package middleware
