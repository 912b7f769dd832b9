// Package session keeps a locally persisted authentication session current.
//
// A Manager hands out the current Session, refreshing it through an injected
// RefreshFunc when the stored copy is about to expire. Any number of goroutines may
// ask for the session concurrently; at most one refresh is outstanding at a time and
// every caller that overlaps it observes the same outcome.
//
// Sessions are persisted through a secretstore.Store under "<namespace>.session".
// The Manager is the only writer of that record.
package session
