// Package textutil provides the byte-level text normalization shared by the
// sentence reader and the feature extractor.
package textutil

import "strings"

var lineReplacer = strings.NewReplacer("#", "|", ":", ";")

// NormalizeLine replaces the characters reserved by the weight file syntax:
// '#' becomes '|' and ':' becomes ';'.
func NormalizeLine(line string) string {
	return lineReplacer.Replace(line)
}

// NormalizeDigits replaces every ASCII digit with '0'.
func NormalizeDigits(word string) string {
	if strings.IndexAny(word, "123456789") < 0 {
		return word
	}
	b := []byte(word)
	for i, c := range b {
		if c >= '0' && c <= '9' {
			b[i] = '0'
		}
	}
	return string(b)
}

// Affixes returns the 4-byte prefix and 2-byte suffix of word.
// The suffix is empty for words of two bytes or fewer and the prefix is
// empty for words of four bytes or fewer.
func Affixes(word string) (prefix, suffix string) {
	n := len(word)
	if n > 2 {
		suffix = word[n-2:]
		if n > 4 {
			prefix = word[:4]
		}
	}
	return prefix, suffix
}

// maxShapeLen caps the length of a word shape.
const maxShapeLen = 5

// WordShape maps ASCII upper-case letters to 'A' and lower-case letters to
// 'a', collapses runs of the same letter class, and truncates the result to
// five bytes. Other bytes are kept as they are, including repeats.
// The shape of the empty word is a single NUL byte, which trained weight
// files expect.
func WordShape(word string) string {
	if word == "" {
		return "\x00"
	}
	var buf strings.Builder
	prev := shapeClass(word[0])
	buf.WriteByte(prev)
	for i := 1; i < len(word) && buf.Len() < maxShapeLen; i++ {
		c := shapeClass(word[i])
		if c != prev || (c != 'A' && c != 'a') {
			buf.WriteByte(c)
		}
		prev = c
	}
	return buf.String()
}

func shapeClass(c byte) byte {
	switch {
	case c >= 'A' && c <= 'Z':
		return 'A'
	case c >= 'a' && c <= 'z':
		return 'a'
	}
	return c
}
