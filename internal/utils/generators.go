package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	TablePrefix       = "tbl"
	OrderPrefix       = "ord"
	OrderItemPrefix   = "itm"
	ReservationPrefix = "res"
	GroceryPrefix     = "grc"
)

// GenerateID builds a prefixed, roughly time-ordered identifier, e.g.
// "ord_1717267200_493027".
func GenerateID(prefix string) string {
	timestamp := time.Now().Unix()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999))
	return fmt.Sprintf("%s_%d_%06d", prefix, timestamp, randomNum.Int64())
}
