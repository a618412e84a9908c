// Package naming allocates sequential record names of the form farm<N>.
package naming

import (
	"math/big"
	"sort"
	"strings"
)

// Prefix starts every generated record name.
const Prefix = "farm"

// Parse extracts N from a name of the form farm<N>, where N is a positive
// base-10 integer without leading zeros. Names of any other shape report false.
func Parse(name string) (*big.Int, bool) {
	digits, ok := strings.CutPrefix(name, Prefix)
	if !ok || digits == "" || digits[0] == '0' {
		return nil, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return nil, false
		}
	}
	n, ok := new(big.Int).SetString(digits, 10)
	return n, ok
}

// Format renders farm<N>.
func Format(n *big.Int) string {
	return Prefix + n.String()
}

// NextName returns farm<max+1> over the names that parse, or farm1 when none do.
// It is a pure function of its input; callers supply a snapshot of the
// namespace's names.
func NextName(existing []string) string {
	highest := new(big.Int)
	for _, name := range existing {
		if n, ok := Parse(name); ok && n.Cmp(highest) > 0 {
			highest = n
		}
	}
	return Format(highest.Add(highest, big.NewInt(1)))
}

// Sort orders names for display: sequential names numerically, then everything
// else lexically.
func Sort(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, aok := Parse(names[i])
		b, bok := Parse(names[j])
		switch {
		case aok && bok:
			return a.Cmp(b) < 0
		case aok != bok:
			return aok
		default:
			return names[i] < names[j]
		}
	})
}
