// Package cli provides the interactive ecoconnect command-line client.
//
// It wires configuration, the local state database, the API client and an
// interactive REPL in which every command is a view. Entering a view mounts
// a fresh guard: entry views (signin, signup) send signed-in users to the
// landing view, protected views send everyone else to signin, and the admin
// view additionally requires an administrator account. "Loading..." is
// printed while a guard is resolving the session.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
