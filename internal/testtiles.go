// Package internal provides helpers shared by tests.
package internal

import "github.com/JaneliaSciComp/catmaid-tools/pixel"

// SolidBuffer returns a w x h buffer with every sample set to v.
func SolidBuffer(w, h int, mode pixel.Mode, v uint8) *pixel.Buffer {
	buf := pixel.NewBuffer(w, h, mode)
	buf.Fill(v)
	return buf
}
