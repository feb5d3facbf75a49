package radio

import "crypto/rand"

// Encrypt obfuscates data with a salted XOR keystream derived from key. It
// prepends two random, non-zero salt bytes that seed the keystream — this is
// not cryptographic, only enough to break repeated-plaintext patterns on air
// and gate the default-key/network-key space.
func Encrypt(data []byte, key Key) []byte {
	salt := randomSalt()

	out := make([]byte, 2+len(data))
	out[0] = salt[0]
	out[1] = salt[1]

	for i, b := range data {
		out[2+i] = b ^ key[(int(salt[0])+i)%KeySize] ^ salt[1]
	}

	return out
}

// Decrypt reverses Encrypt. decrypt(encrypt(x,k),k) == x for any key k.
func Decrypt(buf []byte, key Key) []byte {
	salt0, salt1 := buf[0], buf[1]
	body := buf[2:]

	out := make([]byte, len(body))
	for i, b := range body {
		out[i] = b ^ key[(int(salt0)+i)%KeySize] ^ salt1
	}

	return out
}

// randomSalt returns two bytes in [1,255]; zero is excluded so every
// obfuscated frame taps at least one non-identity byte of the key even for
// single-byte payloads.
func randomSalt() [2]byte {
	var salt [2]byte
	salt[0] = randomNonZeroByte()
	salt[1] = randomNonZeroByte()
	return salt
}

func randomNonZeroByte() byte {
	buf := make([]byte, 1)
	for {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand.Read does not fail on a real OS; fall back to a
			// fixed non-zero byte rather than panicking mid-cycle.
			return 1
		}
		if buf[0] != 0 {
			return buf[0]
		}
	}
}
