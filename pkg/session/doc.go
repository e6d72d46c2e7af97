/*
Package session serves many concurrent users, one decision session each.

An engine holds a single cursor and is not safe for concurrent use, so the Manager
never shares one between sessions. Every operation builds an engine from a Factory,
restores the session's persisted State into it, applies the operation and saves the
new State back to a ports.StateStore. Calls on the same session are serialised by a
reference-counted local mutex and, optionally, a ports.DistributedLocker shared by
several replicas.
*/
package session
