// Package translit converts Cyrillic file names to ASCII using a fixed
// digraph table. The conversion is exposed as a transform.Transformer so it
// composes with other x/text transforms and streams without allocation
// surprises.
package translit

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

var table = map[rune]string{
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Е': "E", 'Ё': "Yo",
	'Ж': "Zh", 'З': "Z", 'И': "I", 'Й': "Y", 'К': "K", 'Л': "L", 'М': "M",
	'Н': "N", 'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T", 'У': "U",
	'Ф': "F", 'Х': "Kh", 'Ц': "Ts", 'Ч': "Ch", 'Ш': "Sh", 'Щ': "Shch",
	'Ъ': "", 'Ы': "Y", 'Ь': "", 'Э': "E", 'Ю': "Yu", 'Я': "Ya",
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Transformer maps Cyrillic runes to their Latin digraphs and passes every
// other rune through unchanged. Soft and hard signs are dropped.
type Transformer struct {
	transform.NopResetter
}

func (Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if !utf8.FullRune(src[nSrc:]) && !atEOF {
			err = transform.ErrShortSrc
			return
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		replacement, mapped := table[r]
		if !mapped {
			replacement = string(src[nSrc : nSrc+size])
		}
		if nDst+len(replacement) > len(dst) {
			err = transform.ErrShortDst
			return
		}
		copy(dst[nDst:], replacement)
		nDst += len(replacement)
		nSrc += size
	}
	return
}

// Normalize returns name with all covered Cyrillic runes transliterated.
func Normalize(name string) string {
	out, _, err := transform.String(Transformer{}, name)
	if err != nil {
		return name
	}
	return out
}

// NeedsNormalization reports whether name contains runes in the covered
// Cyrillic range.
func NeedsNormalization(name string) bool {
	for _, r := range name {
		if _, ok := table[r]; ok {
			return true
		}
	}
	return false
}
