/*
Package ports defines the driven ports (interfaces) of the bbsdemo client core.

These interfaces decouple the workflows from external implementations, allowing
the core to work with any generator transport, storage backend or presentation.

# Key Interfaces

  - Generator: The typed request/response contract of the remote generator service.
  - KeyValueStore: Put/get a string by key; used to persist the settings blob.
  - Clipboard: Fire-and-forget copy of a result.
  - ThemeApplier: Presentation side effect run when the theme changes.
  - SettingsReader: Read side of the shared settings store.
*/
package ports
