package utils

import (
	"fmt"
	"math/rand"
)

// RandomColor returns a random CSS hex colour such as "#1a2b3c".
func RandomColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}
