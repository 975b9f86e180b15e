// Package checksum fingerprints produced images so reports can be verified
// against the bytes a caller stored.
package checksum

import "hash/crc32"

var table = crc32.MakeTable(crc32.IEEE)

// Checksum returns the CRC32 (IEEE) of data.
func Checksum(data []byte) uint32 {
	return crc32.Checksum(data, table)
}

// VerifyChecksum reports whether data still hashes to checksum.
func VerifyChecksum(data []byte, checksum uint32) bool {
	return crc32.Checksum(data, table) == checksum
}
