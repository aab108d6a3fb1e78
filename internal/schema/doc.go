// Package schema validates serialized model descriptions against the
// bundled fmi2ModelDescription.xsd.
//
// The schema resource is compiled into constraint tables exactly once per
// process and shared by every Validator instance: it is fixed and
// immutable for the life of the process, so the compiled form behaves as
// a memoized constant, safe for concurrent read-only use. Validation
// itself is pure: neither the document nor the schema is mutated, and an
// invalid-but-well-formed document is reported as a result, not an error.
package schema
