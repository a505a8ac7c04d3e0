package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPExpiry is how long an emailed verification code stays valid
const OTPExpiry = 10 * time.Minute

// GenerateOTP returns a 6-digit numeric verification code
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
