package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAccount validates an account identifier and returns its canonical
// form. Accounts are EVM-style addresses; normalization to the EIP-55
// checksummed form keeps ledger and position keys consistent regardless of
// the casing callers submit.
func NormalizeAccount(account string) (string, error) {
	if !common.IsHexAddress(account) {
		return "", fmt.Errorf("%w: account %q is not a valid address", ErrInvalidInput, account)
	}
	return common.HexToAddress(account).Hex(), nil
}
