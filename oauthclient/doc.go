// Package oauthclient connects session.Manager to OAuth2 and OpenID Connect
// providers: it supplies RefreshFuncs that run the refresh_token grant, and exposes
// a Manager as an oauth2.TokenSource for outgoing HTTP requests.
package oauthclient
