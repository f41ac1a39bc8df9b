package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const base36Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber returns "GOR" + base36(unix millis) + 5 random base36
// characters, all upper case.
func GenerateOrderNumber(now time.Time) string {
	var sb strings.Builder
	sb.WriteString("GOR")
	sb.WriteString(strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)))
	sb.WriteString(RandomString(5))
	return sb.String()
}

// RandomString returns n characters drawn from [0-9A-Z] using crypto/rand.
func RandomString(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(base36Chars)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = base36Chars[time.Now().UnixNano()%int64(len(base36Chars))]
			continue
		}
		b[i] = base36Chars[idx.Int64()]
	}
	return string(b)
}
