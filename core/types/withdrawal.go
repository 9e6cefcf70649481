package types

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/eth2030/sszkit/ssz"
)

// Withdrawal is a validator withdrawal processed by the execution layer.
// Amount is in Gwei.
type Withdrawal struct {
	Index          uint64
	ValidatorIndex uint64
	Address        common.Address
	Amount         uint64
}

// SSZType returns WithdrawalType.
func (w *Withdrawal) SSZType() *ssz.Type { return WithdrawalType }

// ToValue converts w to its container value.
func (w *Withdrawal) ToValue() ssz.Value {
	return ssz.Composite{
		ssz.Uint64(w.Index),
		ssz.Uint64(w.ValidatorIndex),
		ssz.Bytes(w.Address.Bytes()),
		ssz.Uint64(w.Amount),
	}
}

// FromValue sets w from a value of WithdrawalType.
func (w *Withdrawal) FromValue(v ssz.Value) error {
	if err := ssz.Validate(WithdrawalType, v); err != nil {
		return err
	}
	f := v.(ssz.Composite)
	w.Index = uint64(f[0].(ssz.Uint64))
	w.ValidatorIndex = uint64(f[1].(ssz.Uint64))
	w.Address = common.BytesToAddress(f[2].(ssz.Bytes))
	w.Amount = uint64(f[3].(ssz.Uint64))
	return nil
}

// MarshalSSZ encodes the withdrawal (44 bytes).
func (w *Withdrawal) MarshalSSZ() ([]byte, error) { return ssz.MarshalObject(w) }

// SizeSSZ returns the fixed encoded size.
func (w *Withdrawal) SizeSSZ() int { return int(WithdrawalType.FixedSize()) }

// UnmarshalSSZ decodes a withdrawal. w is unchanged on failure.
func (w *Withdrawal) UnmarshalSSZ(data []byte) error { return ssz.UnmarshalObject(w, data) }

// HashTreeRoot returns the withdrawal's root.
func (w *Withdrawal) HashTreeRoot() ([32]byte, error) {
	r, err := ssz.HashTreeRootObject(w)
	return [32]byte(r), err
}

// withdrawalValue returns nil for a nil withdrawal, which validation
// rejects as a type mismatch.
func withdrawalValue(w *Withdrawal) ssz.Value {
	if w == nil {
		return nil
	}
	return w.ToValue()
}
