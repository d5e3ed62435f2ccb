package db_test

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-lbp/internal/core/domain"
)

func makeRandomPool(t *testing.T) *domain.Pool {
	startTime := uint64(randomIntInRange(1_000_000_000, 1_662_688_000))
	pool, err := domain.NewPool(
		[2]domain.WeightedAsset{
			{ID: randomHex(32), StartWeight: 1, EndWeight: 30},
			{ID: randomHex(32), StartWeight: 49, EndWeight: 20},
		},
		startTime, startTime+uint64(randomIntInRange(1, 100_000)),
		"0.0015", randomHex(8),
	)
	require.NoError(t, err)

	pool.Assets[0].Balance = randomAmount()
	pool.Assets[1].Balance = randomAmount()
	pool.TotalShare = randomAmount()
	return pool
}

// randomAmount returns a random amount of 128 bits.
func randomAmount() *uint256.Int {
	amount, _ := uint256.FromBig(new(big.Int).SetBytes(randomBytes(16)))
	return amount
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func randomIntInRange(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	return int(n.Int64()) + min
}
