/*
Package vault defines the common interfaces that tie together the
subpackages of a time-locked, multi-approver vault, as well as simple
implementations of the smaller components (where an interface would be too
much overhead).

Context is passed through context.Context between the application, the
router and the handlers. Every piece of information that a handler may need
besides the store and the transaction (block time, logger, height) is stored
in the context using a pair of functions:

  WithXYZ(Context, T) Context
  XYZ(Context) (val T, ok bool)

WithXYZ panics if the value was already set, so that a lower level cannot
silently overwrite what a higher level decided (eg. the block time).
*/
package vault
