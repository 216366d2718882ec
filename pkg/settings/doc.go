/*
Package settings implements the process-wide, persisted, reactive settings store.

A Store holds one domain.Settings value, a list of subscribers, and a
persistence port. Every Update merges a patch, fans the full new snapshot out
to subscribers synchronously and in order, persists the snapshot as a JSON
blob, and finally applies the theme side effect when the patch touched the
theme.

Subscribers receive the current snapshot immediately on Subscribe and then
every later snapshot exactly once. Callbacks must not call Update or
Subscribe on the same Store; they may call Get.
*/
package settings
