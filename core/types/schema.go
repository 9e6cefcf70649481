// Package types declares the execution-layer containers exchanged with the
// consensus layer as ssz field tables, and Go structs that convert to and
// from them.
package types

import (
	"sort"

	"github.com/eth2030/sszkit/ssz"
)

// Execution payload bounds.
const (
	MaxBytesPerTransaction    = 1 << 30
	MaxTransactionsPerPayload = 1 << 20
	BytesPerLogsBloom         = 256
	MaxExtraDataBytes         = 32
	MaxWithdrawalsPerPayload  = 16
)

var (
	hashType    = ssz.ByteVector(32)
	addressType = ssz.ByteVector(20)

	// WithdrawalType is the EIP-4895 withdrawal container.
	WithdrawalType = ssz.Container("Withdrawal",
		ssz.Field{Name: "index", Type: ssz.Uint64Type()},
		ssz.Field{Name: "validator_index", Type: ssz.Uint64Type()},
		ssz.Field{Name: "address", Type: addressType},
		ssz.Field{Name: "amount", Type: ssz.Uint64Type()},
	)

	// TransactionType is an opaque encoded transaction.
	TransactionType = ssz.ByteList(MaxBytesPerTransaction)

	// TransactionsType and WithdrawalsType are the payload's two lists.
	TransactionsType = ssz.List(TransactionType, MaxTransactionsPerPayload)
	WithdrawalsType  = ssz.List(WithdrawalType, MaxWithdrawalsPerPayload)

	// ExecutionPayloadType is the Capella execution payload.
	ExecutionPayloadType = ssz.Container("ExecutionPayload",
		append(payloadPrefix(),
			ssz.Field{Name: "transactions", Type: TransactionsType},
			ssz.Field{Name: "withdrawals", Type: WithdrawalsType},
		)...,
	)

	// ExecutionPayloadHeaderType replaces the payload's lists by their roots.
	ExecutionPayloadHeaderType = ssz.Container("ExecutionPayloadHeader",
		append(payloadPrefix(),
			ssz.Field{Name: "transactions_root", Type: hashType},
			ssz.Field{Name: "withdrawals_root", Type: hashType},
		)...,
	)
)

// payloadPrefix returns the 13 fields shared by payload and header.
func payloadPrefix() []ssz.Field {
	return []ssz.Field{
		{Name: "parent_hash", Type: hashType},
		{Name: "fee_recipient", Type: addressType},
		{Name: "state_root", Type: hashType},
		{Name: "receipts_root", Type: hashType},
		{Name: "logs_bloom", Type: ssz.ByteVector(BytesPerLogsBloom)},
		{Name: "prev_randao", Type: hashType},
		{Name: "block_number", Type: ssz.Uint64Type()},
		{Name: "gas_limit", Type: ssz.Uint64Type()},
		{Name: "gas_used", Type: ssz.Uint64Type()},
		{Name: "timestamp", Type: ssz.Uint64Type()},
		{Name: "extra_data", Type: ssz.ByteList(MaxExtraDataBytes)},
		{Name: "base_fee_per_gas", Type: ssz.Uint256Type()},
		{Name: "block_hash", Type: hashType},
	}
}

// Schemas maps the names used by test-vector directories to descriptors.
var Schemas = map[string]*ssz.Type{
	"Withdrawal":             WithdrawalType,
	"Transaction":            TransactionType,
	"ExecutionPayload":       ExecutionPayloadType,
	"ExecutionPayloadHeader": ExecutionPayloadHeaderType,
}

// LookupSchema resolves a registered schema name, falling back to a type
// expression such as "List[uint64, 16]".
func LookupSchema(name string) (*ssz.Type, error) {
	if t, ok := Schemas[name]; ok {
		return t, nil
	}
	return ssz.ParseType(name)
}

// SchemaNames returns the registered schema names in sorted order.
func SchemaNames() []string {
	names := make([]string, 0, len(Schemas))
	for n := range Schemas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
