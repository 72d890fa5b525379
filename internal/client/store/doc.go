// Package store is the client's durable key/value store.
//
// It holds the three session keys (KeyAuthToken, KeyRefreshToken,
// KeyUserData) across restarts. Each operation is atomic per key; SetMany
// additionally writes its keys in one transaction. Get on a missing key
// returns (nil, nil).
//
// Implementations:
//   - SQLiteRepository: a single "metadata" table managed by goose migrations.
//   - Memory: map-backed, for tests and ephemeral sessions.
//   - Sealed: decorator encrypting values at rest with XChaCha20-Poly1305.
package store
