package script

// Mapper translates transformed-source line numbers back to the original
// snippet. Columns are never adjusted.
type Mapper struct {
	// ImportCount is the number of import lines left in place.
	ImportCount int

	// LineCount is the total number of transformed lines, closer included.
	LineCount int
}

// ToOriginal maps a transformed line to the original snippet line.
//
// Import lines map 1:1. Body lines sit one below their original position
// because of the opener. The closer has no original counterpart and maps to
// the last body line.
func (m Mapper) ToOriginal(line int) int {
	switch {
	case line <= m.ImportCount:
		return line
	case line == m.LineCount:
		return max(1, line-2)
	default:
		return max(1, line-1)
	}
}

// ToTransformed maps an original snippet line to its transformed line.
func (m Mapper) ToTransformed(line int) int {
	if line <= m.ImportCount {
		return line
	}
	return line + 1
}

// IsOpener reports whether line is the synthetic wrapper opener.
func (m Mapper) IsOpener(line int) bool {
	return line == m.ImportCount+1
}

// IsCloser reports whether line is the synthetic wrapper closer.
func (m Mapper) IsCloser(line int) bool {
	return line == m.LineCount
}
