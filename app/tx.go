package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/sigs"
	"golang.org/x/crypto/ed25519"
)

// Tx is a single message with the signatures of its signers.
type Tx struct {
	Msg        vault.Msg
	Signatures []*sigs.StdSignature
}

var _ vault.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the message carried by the transaction.
func (tx *Tx) GetMsg() (vault.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction carries no message")
	}
	return tx.Msg, nil
}

// GetSignBytes returns the envelope encoding of the message. Signatures are
// not part of the signed content.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction carries no message")
	}
	return EncodeMsg(tx.Msg)
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// Sign appends the signature of given key. Sequence must be the current
// nonce of the signer, see sigs.NextNonce.
func (tx *Tx) Sign(key ed25519.PrivateKey, chainID string, seq int64) error {
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
