/*
Package session owns the per-visitor state of the site.

A Session bundles the demo tutorial, the sign-up wizard, the pitch deck and
the small observable values the pages react to (scroll offset, selected
roadmap quarter). Sessions live in process memory only; the Manager creates
them on first use, serializes their lifecycle per id and discards them after
an idle TTL or on shutdown, cancelling every timer they own.
*/
package session
