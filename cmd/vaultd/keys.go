package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"golang.org/x/crypto/ed25519"
)

// keyFile is the on disk format of a signing key.
type keyFile struct {
	Address    vault.Address `json:"address"`
	PrivateKey string        `json:"private_key"`
}

// generateKey creates a new ed25519 key and writes it to given path. An
// existing file is never overwritten.
func generateKey(path string) (vault.Address, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "generate key: %s", err)
	}
	addr := vault.PubKeyAddress(pub)
	raw, err := json.MarshalIndent(keyFile{
		Address:    addr,
		PrivateKey: hex.EncodeToString(priv),
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "serialize key: %s", err)
	}

	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "key file: %s", err)
	}
	if _, err := fd.Write(raw); err != nil {
		fd.Close()
		return nil, errors.Wrapf(errors.ErrInput, "write key file: %s", err)
	}
	if err := fd.Close(); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "close key file: %s", err)
	}
	return addr, nil
}

// loadKey reads a key written by generateKey.
func loadKey(path string) (ed25519.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "key file: %s", err)
	}
	var kf keyFile
	if err := json.Unmarshal(raw, &kf); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "key file %s: %s", path, err)
	}
	key, err := hex.DecodeString(kf.PrivateKey)
	if err != nil || len(key) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "key file %s: malformed private key", path)
	}
	return ed25519.PrivateKey(key), nil
}
