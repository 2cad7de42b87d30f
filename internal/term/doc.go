// Package term declares the capability interface of the logical-term engine.
//
// The composition packages (rules, merge, pipeline) only see terms through
// these interfaces. A term engine parses a template plus a type signature
// into a typed term, applies terms to each other and reduces the result.
// The reference engine lives in package logic; any other engine that
// satisfies Parser, Term and Type can be injected instead.
//
// This package contains interface definitions only and imports nothing
// internal.
package term
