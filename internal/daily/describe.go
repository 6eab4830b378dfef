package daily

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dropa-gg/dropa/internal/domain"
)

var tierNames = map[domain.PackType]string{
	domain.PackBronze:   "bronze",
	domain.PackSilver:   "prata",
	domain.PackGold:     "ouro",
	domain.PackPlatinum: "platina",
	domain.PackDiamond:  "diamante",
}

var (
	printer = message.NewPrinter(language.BrazilianPortuguese)
	titler  = cases.Title(language.BrazilianPortuguese)
)

// Describe renders the granted reward for display, e.g. "1.000 créditos" or
// "2 pacotes Ouro".
func Describe(reward domain.DailyReward, value, bonusPct int) string {
	switch reward.RewardType {
	case domain.RewardCredits:
		s := printer.Sprintf("%d %s", value, plural(value, "crédito", "créditos"))
		if bonusPct > 0 {
			s += printer.Sprintf(" (+%d%% de bônus de sequência)", bonusPct)
		}
		return s
	case domain.RewardPack:
		return printer.Sprintf("%d %s %s", value, plural(value, "pacote", "pacotes"), tierName(reward.PackType))
	case domain.RewardItems:
		return printer.Sprintf("%d %s do pacote %s", value, plural(value, "item", "itens"), tierName(reward.PackType))
	default:
		return reward.Description
	}
}

func tierName(t *domain.PackType) string {
	if t == nil {
		return ""
	}
	name, ok := tierNames[*t]
	if !ok {
		name = strings.ToLower(string(*t))
	}
	return titler.String(name)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
