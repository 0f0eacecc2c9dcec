package test

import (
	"math/rand"
	"strings"
)

var validTokens = []string{
	"inputs", "outputs", "match", "_",
	"x", "y", "foo", "bar_2", "_tmp", "únicódeShouldBeVàlid",
	"0", "1", "89", "123", "9223372036854775807",
	"+", "-", "*", "/", "=", "=>", ",", ";",
	"(", ")", "{", "}",
	"// comment\n", "\n", "\t",
}

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	var toks []string
	for len(toks) < size {
		toks = append(toks, validTokens[rand.Intn(len(validTokens))])
	}

	return strings.Join(toks, sep)
}
