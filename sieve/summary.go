package sieve

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Summary returns the human-readable form of r, for example
// "Found 5,761,455 primes up to 100,000,000".
func Summary(r Result) string {
	noun := "primes"
	if r.Count == 1 {
		noun = "prime"
	}
	return printer.Sprintf("Found %d %s up to %d", r.Count, noun, r.Bound)
}
