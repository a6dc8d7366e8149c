// Package memory provides in-process adapters: an account registry with
// optional simulated latency, a waitlist and a replaceable content source.
package memory
