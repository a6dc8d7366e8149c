// Package redis stores accounts and waitlist addresses in Redis so that
// several site replicas share one registry.
package redis
