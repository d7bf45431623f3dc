// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// nonceDomainKey is the BLAKE3 key for message nonces. Changing it
// changes every nonce, which only matters within Discord's short
// nonce window.
var nonceDomainKey = [32]byte{
	's', 'd', 'r', 's', 'h', 'e', 'l', 'l', '.', 'u', 'p', 'l', 'o', 'a', 'd', '.',
	'n', 'o', 'n', 'c', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// nonceLength is the hex length of a nonce. Discord accepts at most 25
// characters.
const nonceLength = 24

// Nonce derives a stable message nonce from the destination channel,
// the file identity and the message part ("notice" or "file"). The same
// inputs always give the same nonce, so a re-sent request is recognized
// by Discord as a duplicate.
func Nonce(channelID Snowflake, fileKey, part string) string {
	hasher, err := blake3.NewKeyed(nonceDomainKey[:])
	if err != nil {
		// Only returned for a key that is not 32 bytes.
		panic("messaging: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(channelID.String()))
	hasher.Write([]byte{0})
	hasher.Write([]byte(fileKey))
	hasher.Write([]byte{0})
	hasher.Write([]byte(part))
	return hex.EncodeToString(hasher.Sum(nil))[:nonceLength]
}
