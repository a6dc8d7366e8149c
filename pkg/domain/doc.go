/*
Package domain contains the core models of the NameCardAI site.

It defines the static descriptors the guided flows are built from, the
session-level values the controllers expose, and the closed variant tables used
by the presentation layer. The package is pure: no I/O, no persistence, no
timers.

# Key Entities

  - Level: one stage of the guided demo tutorial.
  - Step: one page of the sign-up wizard, with the Fields it collects.
  - Registration: the typed snapshot handed to the account-creation port.
  - ValidationErrors: per-field messages produced by the wizard rules.
  - Theme, ButtonVariant, ButtonSize: closed variant sets with lookup tables.
  - LifecycleHooks: observability callbacks fired by the controllers.
*/
package domain
