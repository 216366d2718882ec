/*
Package domain contains the core domain models shared by the bbsdemo workflows.

It defines the generator parameters, the results returned by the remote
generator, the persisted client settings and the playing-card model. This
package is kept pure and free of I/O, following Hexagonal Architecture
principles: adapters translate to and from these types.

# Key Entities

  - Params: The raw (p, q, seed) triple typed by the user.
  - Step: One generator state snapshot returned alongside a result, for display only.
  - Settings: The process-wide client preferences (autoCopy, showSteps, theme, activeTab).
  - Card: A playing card identified by rank and suit.
*/
package domain
