package types

import (
	"github.com/holiman/uint256"
	"math/big"
)

// QuadraticWeight converts a committed token amount into its tally
// contribution: the largest integer w with w*w <= amount.
func QuadraticWeight(amount *uint256.Int) *uint256.Int {
	w := new(big.Int).Sqrt(amount.ToBig())
	ret, _ := uint256.FromBig(w)
	return ret
}
