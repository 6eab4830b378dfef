package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dropa-gg/dropa/internal/domain"
)

// ParseWeights reads "NAME:WEIGHT,..." into a map keyed by K. valid rejects
// unknown names; names are upper-cased before the check.
func ParseWeights[K ~string](s string, valid func(K) bool) (map[K]int, error) {
	out := make(map[K]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf(ErrMsgMalformedWeight, domain.ErrConfiguration, part)
		}
		key := K(strings.ToUpper(strings.TrimSpace(name)))
		if !valid(key) {
			return nil, fmt.Errorf(ErrMsgUnknownWeightKey, domain.ErrConfiguration, name)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf(ErrMsgDuplicateWeightKey, domain.ErrConfiguration, name)
		}
		w, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf(ErrMsgMalformedWeight, domain.ErrConfiguration, part)
		}
		if w < 0 {
			return nil, fmt.Errorf(ErrMsgNegativeWeight, domain.ErrConfiguration, name)
		}
		out[key] = w
	}
	return out, nil
}
