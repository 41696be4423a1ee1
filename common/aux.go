package common

import (
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// AuxKind tells what a contact's auxiliary column holds.
type AuxKind int

const (
	// AuxNone means the source has no aux value at all for the contact.
	AuxNone AuxKind = iota
	// AuxAddress means the value is a wallet address: 0x followed by
	// exactly 40 hex digits, nothing else.
	AuxAddress
	// AuxEns means the value is an ENS name: anything containing a dot
	// that is not a wallet address.
	AuxEns
	// AuxOther covers everything else, the empty string included.
	AuxOther
)

func (k AuxKind) String() string {
	switch k {
	case AuxNone:
		return "none"
	case AuxAddress:
		return "address"
	case AuxEns:
		return "ens"
	default:
		return "other"
	}
}

// AuxValue is the classified content of one aux column. Kind and Raw travel
// together so callers never re-derive the classification.
type AuxValue struct {
	Kind AuxKind
	Raw  string
}

// Classify decides what an aux column value is. It is pure and total: every
// string maps to exactly one of AuxAddress, AuxEns or AuxOther.
//
// The 0x prefix is mandatory and checked separately because geth's
// IsHexAddress also accepts unprefixed hex. Surrounding whitespace is not
// trimmed, so " 0x... " classifies as other.
func Classify(value string) AuxValue {
	if strings.HasPrefix(value, "0x") && ethcommon.IsHexAddress(value) {
		return AuxValue{Kind: AuxAddress, Raw: value}
	}
	if strings.Contains(value, ".") {
		return AuxValue{Kind: AuxEns, Raw: value}
	}
	return AuxValue{Kind: AuxOther, Raw: value}
}

// IsWalletAddress reports whether value classifies as a wallet address.
func IsWalletAddress(value string) bool {
	return Classify(value).Kind == AuxAddress
}

// ChecksumAddress renders a wallet address in EIP-55 mixed case form.
// The input must already classify as AuxAddress.
func ChecksumAddress(addr string) string {
	return ethcommon.HexToAddress(addr).Hex()
}
