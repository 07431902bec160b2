/*
Package registry stores the transactions proposed to the vault.

A transaction describes a transfer of value to a destination address,
optionally carrying a payload. Transactions are identified by a sequence
value and are never removed. The only mutable attribute is the executed
flag.
*/
package registry
