package core

import (
	"encoding/binary"
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Fingerprint hashes the board dimensions and every tile with BLAKE3.
// Two boards have the same fingerprint exactly when Equal reports true
// (up to hash collisions).
func (b *Board) Fingerprint() [32]byte {
	buf := make([]byte, 0, 8+len(b.T)*10)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.W))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.H))
	for i := range b.T {
		t := &b.T[i]
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(t.Owner)))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(t.Army)))
		lit := byte(0)
		if t.Lit {
			lit = 1
		}
		buf = append(buf, byte(t.Type), lit)
	}
	return blake3.Sum256(buf)
}

// FingerprintHex returns Fingerprint as a hex string for logs and tests
func (b *Board) FingerprintHex() string {
	sum := b.Fingerprint()
	return hex.EncodeToString(sum[:])
}
