// Package cli provides the interactive Elite terminal client.
//
// It wires configuration, the durable session store, the API pipeline and
// the resource services behind a read-eval-print loop. A background watcher
// probes the backend and reports online/offline changes.
//
// The REPL is started via App.Run, which blocks until the user exits.
package cli
