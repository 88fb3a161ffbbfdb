package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// mentorShareRate is the fraction of a confirmed payment owed to the
// course/bounty creator. The remaining 20% is the platform's.
var mentorShareRate = decimal.NewFromInt(8).Div(decimal.NewFromInt(10))

// MentorShare computes the mentor's cut of a paid amount, rounded to six
// decimal places.
func MentorShare(amountPaid float64) float64 {
	share := decimal.NewFromFloat(amountPaid).Mul(mentorShareRate).Round(6)
	return share.InexactFloat64()
}

// WeiToNative converts a hex-encoded base-unit quantity (18 decimals) into
// a decimal native-currency amount.
func WeiToNative(hexWei string) (float64, error) {
	s := strings.TrimPrefix(hexWei, "0x")
	if s == "" {
		return 0, fmt.Errorf("empty wei quantity")
	}

	wei, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return 0, fmt.Errorf("invalid wei quantity: %s", hexWei)
	}

	return decimal.NewFromBigInt(wei, -18).InexactFloat64(), nil
}
