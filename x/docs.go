/*
Package x contains the extensions of the vault.

Extensions implement common functionality (Handler, Initializer, etc.) and
are combined together by the app package to construct the application.

Note that protobuf types in exported code will be prefixed by
the package, so follow standard go naming conventions and avoid
stutter. Use eg. `timelock.ConfirmMsg` in place of
`timelock.TimelockConfirmMsg`.
*/
package x
