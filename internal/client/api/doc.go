// Package api is the authenticated request pipeline every backend call goes
// through.
//
// For each call the Client:
//
//   - reads the access token from the durable store and attaches it as
//     "Authorization: Bearer <token>", refreshing it first when it is a JWT
//     about to expire;
//   - sends JSON with a per-call timeout (15s by default) and an X-Request-ID;
//   - decodes 2xx bodies into the caller's target;
//   - classifies failures into *Error (see Kind).
//
// A 401 gets one chance at recovery: when the request carried a token and a
// refresh token is stored, the pair is exchanged once (concurrent exchanges
// collapse into one) and the request is retried. If that fails the session
// keys are removed from the store, invalidation listeners run synchronously,
// and the call fails with ErrSessionExpired.
//
// A 403 is returned untransformed (ErrForbidden, original status and body) so
// callers can interpret it per feature, e.g. a locked chapter.
package api
