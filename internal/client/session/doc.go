// Package session owns the authenticated identity of the running client.
//
// A Store moves through UNINITIALIZED → LOADING → {AUTHENTICATED,
// UNAUTHENTICATED} and then between the last two. It is AUTHENTICATED iff it
// holds both an access token and a user profile. All mutations go through
// Load, Login, UpdateProfile, RefreshProfile, Logout and the pipeline's
// invalidation event; Register never touches it.
//
// The Store's mutex is never held across network calls, so a 401 raised in
// the middle of Login can reset the state without deadlocking.
package session
