// Package spotify provides a typed client for the Spotify Web API.
//
// All calls go through a single authenticated request executor that attaches
// bearer credentials from the token manager, classifies failures, and keeps
// the stored token consistent with what the API accepts: a 401 response
// invalidates the token exactly once and surfaces as
// auth.AuthorizationExpiredError, leaving re-authentication to the caller.
package spotify
