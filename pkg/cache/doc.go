/*
Package cache coordinates access to a ports.ResultStore.

The Manager serializes work per result ID, so concurrent requests for the same
definition run the conversion once and share the stored result.
*/
package cache
