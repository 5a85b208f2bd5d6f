/*
Package session serialises access to many long-lived engines keyed by id.

A World is not safe for concurrent use. Hosts serving several callers keep
one engine per session and go through a Manager, which holds a per-id lock
(reference counted, so idle ids leave no trace) and, when configured, a
distributed lock shared across replicas.
*/
package session
