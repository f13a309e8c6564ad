package ui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// Comma formats n with thousands separators.
func Comma(n int) string {
	s := strconv.Itoa(n)
	neg := ""
	if strings.HasPrefix(s, "-") {
		neg, s = "-", s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return neg + b.String()
}

// SignedComma is Comma with an explicit plus sign on positive values.
func SignedComma(n int) string {
	if n > 0 {
		return "+" + Comma(n)
	}
	return Comma(n)
}

// ShortRepo strips the owner from an owner/repo name.
func ShortRepo(repo string) string {
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		return repo[i+1:]
	}
	return repo
}
