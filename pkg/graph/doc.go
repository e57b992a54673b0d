// Package graph holds the immutable task graph model: named tasks, their
// prerequisite edges and the deterministic topological resolution used by the
// runner. Validation errors (unknown tasks, cycles) are reported here, before
// any task action runs.
package graph
