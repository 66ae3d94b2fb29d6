// Package app contains the core application logic. It defines the validated
// configuration of each command and the App that runs the target
// verification and the loader exercise, decoupled from the CLI entrypoints.
package app
