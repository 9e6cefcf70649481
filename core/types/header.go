package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/eth2030/sszkit/ssz"
)

// ExecutionPayloadHeader commits to a payload's transactions and
// withdrawals by root.
type ExecutionPayloadHeader struct {
	ParentHash       common.Hash
	FeeRecipient     common.Address
	StateRoot        common.Hash
	ReceiptsRoot     common.Hash
	LogsBloom        [BytesPerLogsBloom]byte
	PrevRandao       common.Hash
	BlockNumber      uint64
	GasLimit         uint64
	GasUsed          uint64
	Timestamp        uint64
	ExtraData        []byte
	BaseFeePerGas    *uint256.Int
	BlockHash        common.Hash
	TransactionsRoot common.Hash
	WithdrawalsRoot  common.Hash
}

// SSZType returns ExecutionPayloadHeaderType.
func (h *ExecutionPayloadHeader) SSZType() *ssz.Type { return ExecutionPayloadHeaderType }

// ToValue converts h to its container value.
func (h *ExecutionPayloadHeader) ToValue() ssz.Value {
	return ssz.Composite{
		ssz.Bytes(h.ParentHash.Bytes()),
		ssz.Bytes(h.FeeRecipient.Bytes()),
		ssz.Bytes(h.StateRoot.Bytes()),
		ssz.Bytes(h.ReceiptsRoot.Bytes()),
		ssz.Bytes(h.LogsBloom[:]),
		ssz.Bytes(h.PrevRandao.Bytes()),
		ssz.Uint64(h.BlockNumber),
		ssz.Uint64(h.GasLimit),
		ssz.Uint64(h.GasUsed),
		ssz.Uint64(h.Timestamp),
		ssz.Bytes(nonNil(h.ExtraData)),
		ssz.NewUint256(h.BaseFeePerGas),
		ssz.Bytes(h.BlockHash.Bytes()),
		ssz.Bytes(h.TransactionsRoot.Bytes()),
		ssz.Bytes(h.WithdrawalsRoot.Bytes()),
	}
}

// FromValue sets h from a value of ExecutionPayloadHeaderType.
func (h *ExecutionPayloadHeader) FromValue(v ssz.Value) error {
	if err := ssz.Validate(ExecutionPayloadHeaderType, v); err != nil {
		return err
	}
	f := v.(ssz.Composite)
	var p ExecutionPayload
	p.setPrefix(f)
	*h = ExecutionPayloadHeader{
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
		ExtraData:        p.ExtraData,
		BaseFeePerGas:    p.BaseFeePerGas,
		BlockHash:        p.BlockHash,
		TransactionsRoot: common.BytesToHash(f[13].(ssz.Bytes)),
		WithdrawalsRoot:  common.BytesToHash(f[14].(ssz.Bytes)),
	}
	return nil
}

// MarshalSSZ encodes the header.
func (h *ExecutionPayloadHeader) MarshalSSZ() ([]byte, error) { return ssz.MarshalObject(h) }

// SizeSSZ returns the encoded size, or 0 if the header exceeds a bound.
func (h *ExecutionPayloadHeader) SizeSSZ() int {
	n, err := ssz.Size(ExecutionPayloadHeaderType, h.ToValue())
	if err != nil {
		return 0
	}
	return n
}

// UnmarshalSSZ decodes a header. h is unchanged on failure.
func (h *ExecutionPayloadHeader) UnmarshalSSZ(data []byte) error {
	return ssz.UnmarshalObject(h, data)
}

// HashTreeRoot returns the header's root, equal to the root of the payload
// it was derived from.
func (h *ExecutionPayloadHeader) HashTreeRoot() ([32]byte, error) {
	r, err := ssz.HashTreeRootObject(h)
	return [32]byte(r), err
}

// Equal reports whether h and o encode identically.
func (h *ExecutionPayloadHeader) Equal(o *ExecutionPayloadHeader) bool {
	return ssz.Equal(ExecutionPayloadHeaderType, h.ToValue(), o.ToValue())
}

// Compare orders headers field by field in declaration order.
func (h *ExecutionPayloadHeader) Compare(o *ExecutionPayloadHeader) (int, error) {
	return ssz.Compare(ExecutionPayloadHeaderType, h.ToValue(), o.ToValue())
}
