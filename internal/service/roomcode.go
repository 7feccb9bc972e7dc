package service

import (
	"crypto/rand"
	"math/big"
)

// roomCodeChars excludes visually confusable characters (0/O, 1/I) so
// codes survive being read aloud or typed from a screen.
const roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateRoomCode(length int) string {
	chars := []byte(roomCodeChars)
	code := make([]byte, length)

	for i := 0; i < length; i++ {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		code[i] = chars[n.Int64()]
	}

	return string(code)
}
