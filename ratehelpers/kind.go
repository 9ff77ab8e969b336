package ratehelpers

import (
	"fmt"
	"strings"
)

// Kind names the instrument a helper calibrates to.
type Kind int

const (
	KindFutures Kind = iota + 1
	KindDeposit
	KindFRA
	KindSwap
	KindBMASwap
	KindFxSwap
)

var kindNames = map[Kind]string{
	KindFutures: "futures",
	KindDeposit: "deposit",
	KindFRA:     "fra",
	KindSwap:    "swap",
	KindBMASwap: "bma_swap",
	KindFxSwap:  "fx_swap",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("ratehelpers: unknown instrument kind %q", s)
}
