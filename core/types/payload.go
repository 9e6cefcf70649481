package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/eth2030/sszkit/ssz"
)

// ExecutionPayload is the block body the execution layer hands to the
// consensus layer. Transactions are opaque encoded transactions.
type ExecutionPayload struct {
	ParentHash    common.Hash
	FeeRecipient  common.Address
	StateRoot     common.Hash
	ReceiptsRoot  common.Hash
	LogsBloom     [BytesPerLogsBloom]byte
	PrevRandao    common.Hash
	BlockNumber   uint64
	GasLimit      uint64
	GasUsed       uint64
	Timestamp     uint64
	ExtraData     []byte
	BaseFeePerGas *uint256.Int
	BlockHash     common.Hash
	Transactions  [][]byte
	Withdrawals   []*Withdrawal // nil entries fail encoding with ssz.ErrTypeMismatch
}

// SSZType returns ExecutionPayloadType.
func (p *ExecutionPayload) SSZType() *ssz.Type { return ExecutionPayloadType }

// ToValue converts p to its container value. A nil BaseFeePerGas is zero.
func (p *ExecutionPayload) ToValue() ssz.Value {
	return append(p.prefixValue(), p.transactionsValue(), p.withdrawalsValue())
}

func (p *ExecutionPayload) prefixValue() ssz.Composite {
	c := make(ssz.Composite, 0, 15)
	return append(c,
		ssz.Bytes(p.ParentHash.Bytes()),
		ssz.Bytes(p.FeeRecipient.Bytes()),
		ssz.Bytes(p.StateRoot.Bytes()),
		ssz.Bytes(p.ReceiptsRoot.Bytes()),
		ssz.Bytes(p.LogsBloom[:]),
		ssz.Bytes(p.PrevRandao.Bytes()),
		ssz.Uint64(p.BlockNumber),
		ssz.Uint64(p.GasLimit),
		ssz.Uint64(p.GasUsed),
		ssz.Uint64(p.Timestamp),
		ssz.Bytes(nonNil(p.ExtraData)),
		ssz.NewUint256(p.BaseFeePerGas),
		ssz.Bytes(p.BlockHash.Bytes()),
	)
}

func (p *ExecutionPayload) transactionsValue() ssz.Sequence {
	seq := make(ssz.Sequence, len(p.Transactions))
	for i, tx := range p.Transactions {
		seq[i] = ssz.Bytes(nonNil(tx))
	}
	return seq
}

func (p *ExecutionPayload) withdrawalsValue() ssz.Sequence {
	seq := make(ssz.Sequence, len(p.Withdrawals))
	for i, w := range p.Withdrawals {
		seq[i] = withdrawalValue(w)
	}
	return seq
}

// FromValue sets p from a value of ExecutionPayloadType. p is unchanged on
// failure.
func (p *ExecutionPayload) FromValue(v ssz.Value) error {
	if err := ssz.Validate(ExecutionPayloadType, v); err != nil {
		return err
	}
	f := v.(ssz.Composite)
	var out ExecutionPayload
	out.setPrefix(f)
	txs := f[13].(ssz.Sequence)
	out.Transactions = make([][]byte, len(txs))
	for i, tx := range txs {
		out.Transactions[i] = append([]byte{}, tx.(ssz.Bytes)...)
	}
	ws := f[14].(ssz.Sequence)
	out.Withdrawals = make([]*Withdrawal, len(ws))
	for i, wv := range ws {
		w := new(Withdrawal)
		if err := w.FromValue(wv); err != nil {
			return err
		}
		out.Withdrawals[i] = w
	}
	*p = out
	return nil
}

// setPrefix fills the 13 fields shared with the header from validated
// field values.
func (p *ExecutionPayload) setPrefix(f ssz.Composite) {
	p.ParentHash = common.BytesToHash(f[0].(ssz.Bytes))
	p.FeeRecipient = common.BytesToAddress(f[1].(ssz.Bytes))
	p.StateRoot = common.BytesToHash(f[2].(ssz.Bytes))
	p.ReceiptsRoot = common.BytesToHash(f[3].(ssz.Bytes))
	copy(p.LogsBloom[:], f[4].(ssz.Bytes))
	p.PrevRandao = common.BytesToHash(f[5].(ssz.Bytes))
	p.BlockNumber = uint64(f[6].(ssz.Uint64))
	p.GasLimit = uint64(f[7].(ssz.Uint64))
	p.GasUsed = uint64(f[8].(ssz.Uint64))
	p.Timestamp = uint64(f[9].(ssz.Uint64))
	p.ExtraData = append([]byte{}, f[10].(ssz.Bytes)...)
	p.BaseFeePerGas = f[11].(ssz.Uint256).Int()
	p.BlockHash = common.BytesToHash(f[12].(ssz.Bytes))
}

// MarshalSSZ encodes the payload.
func (p *ExecutionPayload) MarshalSSZ() ([]byte, error) { return ssz.MarshalObject(p) }

// SizeSSZ returns the encoded size, or 0 if the payload exceeds a bound.
func (p *ExecutionPayload) SizeSSZ() int {
	n, err := ssz.Size(ExecutionPayloadType, p.ToValue())
	if err != nil {
		return 0
	}
	return n
}

// UnmarshalSSZ decodes a payload. p is unchanged on failure.
func (p *ExecutionPayload) UnmarshalSSZ(data []byte) error { return ssz.UnmarshalObject(p, data) }

// HashTreeRoot returns the payload's root.
func (p *ExecutionPayload) HashTreeRoot() ([32]byte, error) {
	r, err := ssz.HashTreeRootObject(p)
	return [32]byte(r), err
}

// Compare orders payloads field by field in declaration order.
func (p *ExecutionPayload) Compare(o *ExecutionPayload) (int, error) {
	return ssz.Compare(ExecutionPayloadType, p.ToValue(), o.ToValue())
}

// Equal reports whether p and o encode identically.
func (p *ExecutionPayload) Equal(o *ExecutionPayload) bool {
	return ssz.Equal(ExecutionPayloadType, p.ToValue(), o.ToValue())
}

// Header derives the payload header, replacing the transaction and
// withdrawal lists by their hash tree roots. The header and the payload
// share a root.
func (p *ExecutionPayload) Header() (*ExecutionPayloadHeader, error) {
	txRoot, err := ssz.HashTreeRoot(TransactionsType, p.transactionsValue())
	if err != nil {
		return nil, err
	}
	wRoot, err := ssz.HashTreeRoot(WithdrawalsType, p.withdrawalsValue())
	if err != nil {
		return nil, err
	}
	return &ExecutionPayloadHeader{
		ParentHash:       p.ParentHash,
		FeeRecipient:     p.FeeRecipient,
		StateRoot:        p.StateRoot,
		ReceiptsRoot:     p.ReceiptsRoot,
		LogsBloom:        p.LogsBloom,
		PrevRandao:       p.PrevRandao,
		BlockNumber:      p.BlockNumber,
		GasLimit:         p.GasLimit,
		GasUsed:          p.GasUsed,
		Timestamp:        p.Timestamp,
		ExtraData:        append([]byte{}, p.ExtraData...),
		BaseFeePerGas:    ssz.NewUint256(p.BaseFeePerGas).Int(),
		BlockHash:        p.BlockHash,
		TransactionsRoot: common.Hash(txRoot),
		WithdrawalsRoot:  common.Hash(wRoot),
	}, nil
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
