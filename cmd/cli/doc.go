// Package cli constructs the todosync command-line interface, wiring the
// Cobra command hierarchy, layered configuration, dotenv loading, and
// structured logging around the sync command.
package cli
