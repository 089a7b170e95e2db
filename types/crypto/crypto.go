package crypto

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"hash"
)

func DefaultHash(datas ...[]byte) []byte {
	hasher := DefaultHasher()
	for _, bz := range datas {
		hasher.Write(bz)
	}
	return hasher.Sum(nil)
}

func DefaultHasher() hash.Hash {
	return ethcrypto.NewKeccakState()
}

func DefaultHasherName() string {
	return "keccak256"
}
