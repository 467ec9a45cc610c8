// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"encoding/json"
	"strings"
)

// VMStatusExecuted is the vm status type of a successfully executed
// transaction.
const VMStatusExecuted = "executed"

// Metadata describes the ledger at a version.
type Metadata struct {
	Version                 uint64   `json:"version"`
	Timestamp               uint64   `json:"timestamp"`
	ChainID                 uint8    `json:"chain_id"`
	ScriptHashAllowList     []string `json:"script_hash_allow_list,omitempty"`
	ModulePublishingAllowed *bool    `json:"module_publishing_allowed,omitempty"`
	DiemVersion             *uint64  `json:"diem_version,omitempty"`
	AccumulatorRootHash     string   `json:"accumulator_root_hash,omitempty"`
	DualAttestationLimit    *uint64  `json:"dual_attestation_limit,omitempty"`
}

// Amount is a quantity of a currency in its smallest unit.
type Amount struct {
	Amount   uint64 `json:"amount"`
	Currency string `json:"currency"`
}

// AccountRole is the on-chain role of an account. Fields not used by Type
// are empty.
type AccountRole struct {
	Type                     string   `json:"type"`
	ParentVASPAddress        string   `json:"parent_vasp_address,omitempty"`
	HumanName                string   `json:"human_name,omitempty"`
	BaseURL                  string   `json:"base_url,omitempty"`
	ExpirationTime           uint64   `json:"expiration_time,omitempty"`
	ComplianceKey            string   `json:"compliance_key,omitempty"`
	NumChildren              uint64   `json:"num_children,omitempty"`
	ComplianceKeyRotationKey string   `json:"compliance_key_rotation_events_key,omitempty"`
	BaseURLRotationEventsKey string   `json:"base_url_rotation_events_key,omitempty"`
	ReceivedMintEventsKey    string   `json:"received_mint_events_key,omitempty"`
	PreburnBalances          []Amount `json:"preburn_balances,omitempty"`
}

// Account is the state of an account at a ledger version.
type Account struct {
	Address                        string      `json:"address"`
	Balances                       []Amount    `json:"balances"`
	SequenceNumber                 uint64      `json:"sequence_number"`
	AuthenticationKey              string      `json:"authentication_key"`
	SentEventsKey                  string      `json:"sent_events_key"`
	ReceivedEventsKey              string      `json:"received_events_key"`
	DelegatedKeyRotationCapability bool        `json:"delegated_key_rotation_capability"`
	DelegatedWithdrawalCapability  bool        `json:"delegated_withdrawal_capability"`
	IsFrozen                       bool        `json:"is_frozen"`
	Role                           AccountRole `json:"role"`
	Version                        uint64      `json:"version"`
}

// Balance returns the amount of [currency] held, or 0 if there is no balance
// in it.
func (a *Account) Balance(currency string) uint64 {
	for _, b := range a.Balances {
		if b.Currency == currency {
			return b.Amount
		}
	}
	return 0
}

// Script is the decoded script of a user transaction.
type Script struct {
	Type              string   `json:"type"`
	Code              string   `json:"code,omitempty"`
	Arguments         []string `json:"arguments,omitempty"`
	TypeArguments     []string `json:"type_arguments,omitempty"`
	Receiver          string   `json:"receiver,omitempty"`
	Amount            uint64   `json:"amount,omitempty"`
	Currency          string   `json:"currency,omitempty"`
	Metadata          string   `json:"metadata,omitempty"`
	MetadataSignature string   `json:"metadata_signature,omitempty"`
	ModuleAddress     string   `json:"module_address,omitempty"`
	ModuleName        string   `json:"module_name,omitempty"`
	FunctionName      string   `json:"function_name,omitempty"`
}

// TransactionData is the body of a transaction. Fields beyond Type are only
// set for user transactions.
type TransactionData struct {
	Type                    string   `json:"type"`
	Timestamp               uint64   `json:"timestamp_usecs,omitempty"`
	Sender                  string   `json:"sender,omitempty"`
	SignatureScheme         string   `json:"signature_scheme,omitempty"`
	Signature               string   `json:"signature,omitempty"`
	PublicKey               string   `json:"public_key,omitempty"`
	SecondarySigners        []string `json:"secondary_signers,omitempty"`
	SequenceNumber          uint64   `json:"sequence_number,omitempty"`
	ChainID                 uint8    `json:"chain_id,omitempty"`
	MaxGasAmount            uint64   `json:"max_gas_amount,omitempty"`
	GasUnitPrice            uint64   `json:"gas_unit_price,omitempty"`
	GasCurrency             string   `json:"gas_currency,omitempty"`
	ExpirationTimestampSecs uint64   `json:"expiration_timestamp_secs,omitempty"`
	ScriptHash              string   `json:"script_hash,omitempty"`
	ScriptBytes             string   `json:"script_bytes,omitempty"`
	Script                  *Script  `json:"script,omitempty"`
}

// VMStatus is the outcome of executing a transaction.
type VMStatus struct {
	Type          string            `json:"type"`
	Location      string            `json:"location,omitempty"`
	AbortCode     uint64            `json:"abort_code,omitempty"`
	FunctionIndex uint16            `json:"function_index,omitempty"`
	CodeOffset    uint16            `json:"code_offset,omitempty"`
	Explanation   *AbortExplanation `json:"explanation,omitempty"`
}

// Executed returns true if the transaction executed successfully.
func (s VMStatus) Executed() bool {
	return s.Type == VMStatusExecuted
}

// AbortExplanation decodes a move abort code.
type AbortExplanation struct {
	Category            string `json:"category"`
	CategoryDescription string `json:"category_description"`
	Reason              string `json:"reason"`
	ReasonDescription   string `json:"reason_description"`
}

// Transaction is a transaction included in the ledger.
type Transaction struct {
	Version     uint64          `json:"version"`
	Transaction TransactionData `json:"transaction"`
	Hash        string          `json:"hash"`
	Bytes       string          `json:"bytes"`
	Events      []Event         `json:"events"`
	VMStatus    VMStatus        `json:"vm_status"`
	GasUsed     uint64          `json:"gas_used"`
}

// HashMatches compares the hash of the transaction to [hash], ignoring case
// and a 0x prefix.
func (t *Transaction) HashMatches(hash string) bool {
	return strings.EqualFold(trimHexPrefix(t.Hash), trimHexPrefix(hash))
}

// EventData is the body of an event. Fields not used by Type are empty.
type EventData struct {
	Type     string  `json:"type"`
	Amount   *Amount `json:"amount,omitempty"`
	Sender   string  `json:"sender,omitempty"`
	Receiver string  `json:"receiver,omitempty"`
	Metadata string  `json:"metadata,omitempty"`

	// Raw is the undecoded body.
	Raw json.RawMessage `json:"-"`
}

func (d *EventData) UnmarshalJSON(b []byte) error {
	type plain EventData
	if err := json.Unmarshal(b, (*plain)(d)); err != nil {
		return err
	}
	d.Raw = append(d.Raw[:0], b...)
	return nil
}

// Event is an event emitted by a transaction.
type Event struct {
	Key                string    `json:"key"`
	SequenceNumber     uint64    `json:"sequence_number"`
	TransactionVersion uint64    `json:"transaction_version"`
	Data               EventData `json:"data"`
}

// CurrencyInfo describes a currency registered on chain.
type CurrencyInfo struct {
	Code                        string  `json:"code"`
	ScalingFactor               uint64  `json:"scaling_factor"`
	FractionalPart              uint64  `json:"fractional_part"`
	ToXDXExchangeRate           float64 `json:"to_xdx_exchange_rate"`
	MintEventsKey               string  `json:"mint_events_key"`
	BurnEventsKey               string  `json:"burn_events_key"`
	PreburnEventsKey            string  `json:"preburn_events_key"`
	CancelBurnEventsKey         string  `json:"cancel_burn_events_key"`
	ExchangeRateUpdateEventsKey string  `json:"exchange_rate_update_events_key"`
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
