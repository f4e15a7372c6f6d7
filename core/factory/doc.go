// Package factory provides a generic registry used to build solvers and
// trial sinks from their configured type name.
package factory
