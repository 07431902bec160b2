/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and maintain nonces for replay protection.

A signature is made with an ed25519 key over the sign bytes of a
transaction, prefixed with the chain id and the sequence number of the
signer. The condition of every valid signature is available to handlers
through the Authenticate authenticator.
*/
package sigs
