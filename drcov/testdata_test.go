package drcov_test

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// drcovFile assembles a drcov file from its text lines and raw blocks.
func drcovFile(lines []string, blocks ...[3]uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(lines, "\n"))
	buf.WriteByte('\n')
	for _, b := range blocks {
		var rec [8]byte
		binary.LittleEndian.PutUint32(rec[0:], b[0])
		binary.LittleEndian.PutUint16(rec[4:], uint16(b[1]))
		binary.LittleEndian.PutUint16(rec[6:], uint16(b[2]))
		buf.Write(rec[:])
	}
	return buf.Bytes()
}
