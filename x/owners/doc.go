/*
Package owners keeps the set of approvers of the vault together with the
number of confirmations required for a transaction to pass.

The owner set is a singleton configuration stored using the gconf package.
It is created once, from the genesis file, and it is never modified
afterwards.
*/
package owners
