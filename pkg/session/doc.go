/*
Package session serialises access to stored nets.

A reduction is a load, reduce, save cycle. Two cycles on the same net id
must not interleave or one of them loses its rewrites. The Manager holds a
reference-counted mutex per id and, when a DistributedLocker is configured,
a lock shared by every replica.
*/
package session
