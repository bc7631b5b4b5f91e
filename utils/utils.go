package utils

import (
	"crypto/rand"
	"math"
	"math/big"
	"os"
	"strings"
	"time"
)

// Backoff returns the wait before the i-th retry: i^2 seconds plus up to 9 seconds of jitter.
func Backoff(i int) time.Duration {
	wait := math.Pow(float64(i), 2) + float64(randInt()%10)
	return time.Duration(wait) * time.Second
}

func randInt() int {
	seed, _ := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	return int(seed.Int64())
}

// TrimSpaceNewline deletes space character and newline character(CR/LF)
func TrimSpaceNewline(str string) string {
	str = strings.TrimSpace(str)
	return strings.Trim(str, "\r\n")
}

func LookupEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultValue
}
