// Package verifier checks a build's declared targets against an expectation
// table: every expected target must be present, every other table target must
// be absent, and the companion files of expected targets must exist under the
// build root.
package verifier
