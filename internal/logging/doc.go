// Package logging provides the structured logging interface used by the
// harness, the benchmark reporter and the worker processes. It abstracts the
// underlying zerolog implementation so components only depend on Logger.
package logging
