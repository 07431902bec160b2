package app

import (
	"crypto/rand"
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store/iavl"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/owners"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/timelock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

const testChainID = "test-chain"

type signer struct {
	key  ed25519.PrivateKey
	addr vault.Address
}

func newSigner(t testing.TB) *signer {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return &signer{key: priv, addr: vault.PubKeyAddress(pub)}
}

type testVault struct {
	*Vault
	reg *prometheus.Registry
}

func mustJSON(t testing.TB, v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func testGenesis(t testing.TB, threshold uint32, delay uint64, funds int64, approvers ...*signer) *Genesis {
	addrs := make([]vault.Address, len(approvers))
	for i, s := range approvers {
		addrs[i] = s.addr
	}
	return &Genesis{
		ChainID: testChainID,
		AppState: vault.Options{
			"owners":   mustJSON(t, owners.OwnerSet{Owners: addrs, Threshold: threshold}),
			"cash":     mustJSON(t, []cash.GenesisAccount{{Address: timelock.SystemAddress, Amount: funds}}),
			"timelock": mustJSON(t, timelock.Configuration{Delay: delay}),
		},
	}
}

func newTestVault(t testing.TB, gen *Genesis) *testVault {
	reg := prometheus.NewRegistry()
	v, err := NewVault(iavl.NewMemCommitStore(), log.NewNopLogger(), reg)
	require.NoError(t, err)
	require.NoError(t, v.InitChain(gen))
	_, err = v.Commit()
	require.NoError(t, err)
	return &testVault{Vault: v, reg: reg}
}

// deliver processes a single message in its own block. The message is
// signed when a signer is given.
func (tv *testVault) deliver(t testing.TB, at int64, s *signer, msg vault.Msg) (*vault.DeliverResult, error) {
	t.Helper()
	require.NoError(t, tv.BeginBlock(time.Unix(at, 0)))
	tx := &Tx{Msg: msg}
	if s != nil {
		seq, err := sigs.NextNonce(tv.DeliverStore(), s.addr)
		require.NoError(t, err)
		require.NoError(t, tx.Sign(s.key, tv.ChainID(), seq))
	}
	res, err := tv.Deliver(tx)
	_, cerr := tv.Commit()
	require.NoError(t, cerr)
	return res, err
}

func (tv *testVault) balance(t testing.TB, addr vault.Address) int64 {
	got, err := tv.Cash.Balance(tv.DeliverStore(), addr)
	require.NoError(t, err)
	return got
}

func (tv *testVault) eventCount(t testing.TB, kind string) float64 {
	families, err := tv.reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "vault_timelock_events_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "kind" && l.GetValue() == kind {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestTransferWorkflow(t *testing.T) {
	alice, bob, carol := newSigner(t), newSigner(t), newSigner(t)
	tv := newTestVault(t, testGenesis(t, 2, 100, 1000, alice, bob, carol))
	dest := newSigner(t).addr

	res, err := tv.deliver(t, 1000, alice, &timelock.SubmitMsg{Destination: dest, Value: 300})
	require.NoError(t, err)
	id := res.Data

	_, err = tv.deliver(t, 1010, bob, &timelock.ConfirmMsg{TransactionID: id})
	require.NoError(t, err)

	locked, err := tv.Timelock.IsLocked(vaulttest.Context(1050), tv.DeliverStore(), id)
	require.NoError(t, err)
	require.True(t, locked)

	// Anyone can attempt the execution, no signature is required.
	_, err = tv.deliver(t, 1050, nil, &timelock.ExecuteMsg{TransactionID: id})
	require.True(t, timelock.ErrStillLocked.Is(err), "want still locked, got %+v", err)

	res, err = tv.deliver(t, 1110, nil, &timelock.ExecuteMsg{TransactionID: id})
	require.NoError(t, err)
	require.Equal(t, []byte("succeeded"), res.Data)
	require.Equal(t, int64(300), tv.balance(t, dest))
	require.Equal(t, int64(700), tv.balance(t, timelock.SystemAddress))

	_, err = tv.deliver(t, 1120, carol, &timelock.ExecuteMsg{TransactionID: id})
	require.True(t, timelock.ErrAlreadyExecuted.Is(err), "want already executed, got %+v", err)

	require.Equal(t, float64(1), tv.eventCount(t, "submitted"))
	require.Equal(t, float64(2), tv.eventCount(t, "confirmed"))
	require.Equal(t, float64(1), tv.eventCount(t, "confirmation_time_set"))
	require.Equal(t, float64(1), tv.eventCount(t, "execution_succeeded"))
}

func TestGovernedDelayChange(t *testing.T) {
	alice, bob := newSigner(t), newSigner(t)
	tv := newTestVault(t, testGenesis(t, 2, 100, 0, alice, bob))

	// A direct change is rejected as only the vault itself can do that.
	_, err := tv.deliver(t, 1000, alice, &timelock.ChangeDelayMsg{Delay: 10})
	require.True(t, errors.ErrUnauthorized.Is(err), "want unauthorized, got %+v", err)

	payload, err := tv.Codec.Encode(&timelock.ChangeDelayMsg{Delay: 0})
	require.NoError(t, err)
	res, err := tv.deliver(t, 1000, alice, &timelock.SubmitMsg{Destination: timelock.SystemAddress, Payload: payload})
	require.NoError(t, err)
	governance := res.Data
	_, err = tv.deliver(t, 1010, bob, &timelock.ConfirmMsg{TransactionID: governance})
	require.NoError(t, err)

	// Latched before the change, it would unlock at 1120 with the old delay.
	dest := newSigner(t).addr
	res, err = tv.deliver(t, 1020, bob, &timelock.SubmitMsg{Destination: dest})
	require.NoError(t, err)
	pending := res.Data
	_, err = tv.deliver(t, 1020, alice, &timelock.ConfirmMsg{TransactionID: pending})
	require.NoError(t, err)

	res, err = tv.deliver(t, 1110, nil, &timelock.ExecuteMsg{TransactionID: governance})
	require.NoError(t, err)
	require.Equal(t, []byte("succeeded"), res.Data)

	delay, err := timelock.NewGate().Delay(tv.DeliverStore())
	require.NoError(t, err)
	require.Equal(t, uint64(0), delay)
	require.Equal(t, float64(1), tv.eventCount(t, "delay_changed"))

	// The new delay applies to a transaction latched before the change.
	res, err = tv.deliver(t, 1111, nil, &timelock.ExecuteMsg{TransactionID: pending})
	require.NoError(t, err)
	require.Equal(t, []byte("succeeded"), res.Data)
}

func TestReentrantExecution(t *testing.T) {
	alice := newSigner(t)
	tv := newTestVault(t, testGenesis(t, 1, 0, 0, alice))

	// The first transaction gets the first sequence value.
	id := []byte{0, 0, 0, 0, 0, 0, 0, 1}
	payload, err := tv.Codec.Encode(&timelock.ExecuteMsg{TransactionID: id})
	require.NoError(t, err)
	res, err := tv.deliver(t, 1000, alice, &timelock.SubmitMsg{Destination: timelock.SystemAddress, Payload: payload})
	require.NoError(t, err)
	require.Equal(t, id, res.Data)

	res, err = tv.deliver(t, 1000, nil, &timelock.ExecuteMsg{TransactionID: id})
	require.NoError(t, err)
	require.Equal(t, []byte("failed"), res.Data)

	status, err := tv.Timelock.Status(vaulttest.Context(1000), tv.DeliverStore(), id)
	require.NoError(t, err)
	require.Equal(t, timelock.StateUnlockable, status.State)
	require.Equal(t, float64(1), tv.eventCount(t, "execution_failed"))
}

func TestSignatureReplay(t *testing.T) {
	alice, bob := newSigner(t), newSigner(t)
	tv := newTestVault(t, testGenesis(t, 2, 0, 0, alice, bob))

	require.NoError(t, tv.BeginBlock(time.Unix(1000, 0)))
	tx := &Tx{Msg: &timelock.SubmitMsg{Destination: bob.addr}}
	require.NoError(t, tx.Sign(alice.key, tv.ChainID(), 0))
	_, err := tv.Deliver(tx)
	require.NoError(t, err)
	_, err = tv.Deliver(tx)
	require.True(t, sigs.ErrInvalidSequence.Is(err), "want invalid sequence, got %+v", err)
	_, err = tv.Commit()
	require.NoError(t, err)

	// A signature made for another chain is rejected.
	other := &Tx{Msg: &timelock.SubmitMsg{Destination: bob.addr}}
	require.NoError(t, other.Sign(bob.key, "other-chain", 0))
	require.NoError(t, tv.BeginBlock(time.Unix(1001, 0)))
	_, err = tv.Deliver(other)
	_, cerr := tv.Commit()
	require.NoError(t, cerr)
	require.True(t, errors.ErrUnauthorized.Is(err), "want unauthorized, got %+v", err)
}

func TestFailedDeliveryIsDiscarded(t *testing.T) {
	alice := newSigner(t)
	tv := newTestVault(t, testGenesis(t, 1, 0, 0, alice))

	_, err := tv.deliver(t, 1000, alice, &timelock.ConfirmMsg{TransactionID: []byte{0, 0, 0, 0, 0, 0, 0, 9}})
	require.True(t, errors.ErrNotFound.Is(err), "want not found, got %+v", err)

	// The signature sequence is not consumed by a failed delivery.
	seq, err := sigs.NextNonce(tv.DeliverStore(), alice.addr)
	require.NoError(t, err)
	require.Equal(t, int64(0), seq)
}

func TestCheckDoesNotPersist(t *testing.T) {
	alice := newSigner(t)
	tv := newTestVault(t, testGenesis(t, 1, 0, 0, alice))

	require.NoError(t, tv.BeginBlock(time.Unix(1000, 0)))
	tx := &Tx{Msg: &timelock.SubmitMsg{Destination: alice.addr}}
	require.NoError(t, tx.Sign(alice.key, tv.ChainID(), 0))
	_, err := tv.Check(tx)
	require.NoError(t, err)

	// The same signature is still valid for the delivery.
	_, err = tv.Deliver(tx)
	require.NoError(t, err)
}

func TestOperationsRequireBlock(t *testing.T) {
	alice := newSigner(t)
	tv := newTestVault(t, testGenesis(t, 1, 0, 0, alice))

	_, err := tv.Deliver(&Tx{Msg: &timelock.ExecuteMsg{TransactionID: []byte{1}}})
	require.True(t, errors.ErrState.Is(err))
	_, err = tv.Check(&Tx{Msg: &timelock.ExecuteMsg{TransactionID: []byte{1}}})
	require.True(t, errors.ErrState.Is(err))
}

func TestInitChain(t *testing.T) {
	alice, bob := newSigner(t), newSigner(t)

	v, err := NewVault(iavl.NewMemCommitStore(), log.NewNopLogger(), nil)
	require.NoError(t, err)

	// Missing time lock configuration fails the whole genesis.
	broken := testGenesis(t, 1, 0, 0, alice, bob)
	delete(broken.AppState, timelock.PackageName)
	err = v.InitChain(broken)
	require.True(t, errors.ErrEmpty.Is(err), "want empty, got %+v", err)
	require.Equal(t, "", v.ChainID())
	_, err = owners.Load(v.DeliverStore())
	require.True(t, errors.ErrNotFound.Is(err), "owner set must not be saved, got %+v", err)

	invalid := testGenesis(t, 3, 0, 0, alice, bob)
	err = v.InitChain(invalid)
	require.True(t, errors.ErrInput.Is(err), "want input, got %+v", err)

	require.NoError(t, v.InitChain(testGenesis(t, 2, 0, 0, alice, bob)))
	require.Equal(t, testChainID, v.ChainID())
	set, err := owners.Load(v.DeliverStore())
	require.NoError(t, err)
	require.Equal(t, uint32(2), set.Threshold)

	err = v.InitChain(testGenesis(t, 2, 0, 0, alice, bob))
	require.True(t, errors.ErrState.Is(err), "want state, got %+v", err)
}
