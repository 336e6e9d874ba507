package ai

import "unicode/utf8"

// descLen is how much of a credential may appear in logs.
const descLen = 10

type Token struct {
	Token string
	Desc  string
	Index int // position in the pool
}

func NewToken(value string, index int) Token {
	return Token{Token: value, Desc: describe(value), Index: index}
}

// String keeps the secret out of fmt and structured logging.
func (t Token) String() string {
	return t.Desc
}

// describe keeps at most descLen runes and always hides at least half of the value.
func describe(value string) string {
	n := utf8.RuneCountInString(value)
	if n > descLen*2 {
		n = descLen
	} else {
		n /= 2
	}
	return string([]rune(value)[:n]) + "..."
}
