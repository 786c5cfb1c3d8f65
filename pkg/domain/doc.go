/*
Package domain contains the core domain models of the two-group traveler SIR simulator.

It defines the compartment triples, the twelve-value snapshot advanced by the
recurrence, the immutable model parameters, and the simulation result. This
package is kept pure and free of external dependencies like I/O or rendering,
following Hexagonal Architecture principles.

# Key Entities

  - SIR: One Susceptible/Infected/Recovered triple.
  - Snapshot: The four triples (A, B, A in B, B in A) at one time step.
  - Params: Population sizes, rates, travel proportions, stay durations and horizon.
  - Result: Every snapshot from step 0 to Weeks, plus any recorded anomalies.
  - LifecycleHooks: Callbacks used by reporting collaborators to stream a run.
*/
package domain
