// Package auth implements the Spotify OAuth token lifecycle: durable token
// persistence, transparent refresh with a safety margin, and the
// browser-driven authorization-code flow with a local callback listener.
//
// The package is built around three cooperating pieces:
//
//   - Store persists the access/refresh token pair to disk so separate
//     process invocations share one login. The on-disk copy is a
//     last-writer-wins mailbox; corruption degrades to "absent" and never
//     fails the caller.
//   - Manager owns the authoritative in-memory token, serves fresh access
//     tokens without I/O, refreshes stale ones (at most one refresh in
//     flight), and invalidates rejected credentials.
//   - Coordinator drives the interactive authorization-code flow: it binds
//     the well-known callback port, redirects the user's browser to
//     Spotify's consent page, exchanges the returned code for tokens, and
//     cooperates with other local processes that may already own the port.
package auth
