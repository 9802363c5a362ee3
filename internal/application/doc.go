// Package application provides application initialization and dependency wiring.
// It creates the item storage, solver, metrics, handlers, routers and HTTP
// server, leaving the main package to CLI parsing and orchestration.
package application
