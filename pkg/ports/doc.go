/*
Package ports defines the driven ports (interfaces) of the NameCardAI site.

These interfaces decouple the flow controllers from external implementations,
so the same wizard can create accounts in memory, in Redis or through an HTTP
API, and the same tutorial can run on the wall clock or on a manual test clock.

# Key Interfaces

  - AccountCreator: performs the terminal side effect of the sign-up wizard.
  - Waitlist: records landing-page email captures.
  - Clock: schedules the auto-advance and autoplay timers.
  - ContentSource: loads the static content catalog (embedded or Loam overlay).
  - DistributedLocker: coordinates account creation across replicas.
*/
package ports
