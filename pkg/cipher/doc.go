/*
Package cipher implements the text transform workflow.

Two independent transforms live here:

  - Workflow drives the remote generator (encrypt to hex, decrypt from hex)
    through the shared request lifecycle and keeps the last result, its
    trace steps and whether the steps are shown.
  - EncryptLocal and DecryptLocal are a pure, offline rotation cipher keyed by
    an arbitrary string. They never touch the network and are unrelated to
    the remote scheme.
*/
package cipher
