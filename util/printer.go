// Package util holds small formatting helpers shared by store's
// diagnostic tooling.
package util

import "fmt"

// DumpBlock renders one on-disk block as a hex/ASCII dump, xxd style,
// with an 8-byte grouping that lines up with the fixed-width uint64
// fields every superblock/inode/nodeinfo/freepage record is built from
// (see store/layout.go) — each group in a dumped header row is one field.
func DumpBlock(buf []byte) string {
	const bytesPerRow = 16
	var out string
	var ascii []byte

	numRows := (len(buf) + bytesPerRow - 1) / bytesPerRow
	for i := 0; i < numRows; i++ {
		firstByte := i * bytesPerRow
		lastByte := firstByte + bytesPerRow

		row := fmt.Sprintf("%08x ", firstByte) + ":"
		for j := firstByte; j < lastByte; j++ {
			if j%8 == 0 {
				row += " "
			}
			if j < len(buf) {
				row += fmt.Sprintf(" %02x", buf[j])
				switch {
				case buf[j] < 32 || buf[j] > 126:
					ascii = append(ascii, '.')
				default:
					ascii = append(ascii, buf[j])
				}
			} else {
				row += "   "
			}
		}
		row += fmt.Sprintf("  %s\n", string(ascii))
		ascii = ascii[:0]
		out += row
	}
	return out
}
