package chromisc

import (
	"bufio"
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit
// the values in the reader, assuming a CSV-like file. Spectrometer exports
// are most often tab- or comma-delimited, but European instrument software
// frequently emits semicolons.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

// DetermineDecimalSeparator guesses whether a columnar numeric file uses '.'
// or ',' as its decimal separator. Comma-decimal files (common with
// semicolon-delimited European exports) contain commas that sit between
// digits but no dot-decimal numbers. When both appear, '.' wins: a comma is
// then assumed to be a delimiter or thousands separator.
func DetermineDecimalSeparator(r io.Reader) rune {
	scanner := bufio.NewScanner(r)

	var dotNumbers, commaNumbers int
	for lines := 0; scanner.Scan() && lines < 50; lines++ {
		line := scanner.Text()
		dotNumbers += countDigitSeparatorDigit(line, '.')
		commaNumbers += countDigitSeparatorDigit(line, ',')
	}

	if commaNumbers > 0 && dotNumbers == 0 {
		return ','
	}

	return '.'
}

func countDigitSeparatorDigit(line string, sep byte) int {
	count := 0
	for i := 1; i+1 < len(line); i++ {
		if line[i] != sep {
			continue
		}
		if isDigit(line[i-1]) && isDigit(line[i+1]) {
			count++
		}
	}

	return count
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// NormalizeDecimals rewrites a comma-decimal numeric token to dot-decimal.
// It is a no-op for tokens that already parse with dots.
func NormalizeDecimals(token string, decimal rune) string {
	if decimal != ',' {
		return token
	}

	return strings.ReplaceAll(token, ",", ".")
}
