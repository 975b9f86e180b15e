package checksum

import "testing"

func TestChecksumVerify(t *testing.T) {
	data := []byte("sizefit")
	sum := Checksum(data)

	if !VerifyChecksum(data, sum) {
		t.Fatal("checksum of unchanged data should verify")
	}
	if VerifyChecksum([]byte("sizefiT"), sum) {
		t.Fatal("checksum of changed data should not verify")
	}
}
