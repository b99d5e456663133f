package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/pkg/textnorm"
)

var monthRe = regexp.MustCompile(`([0-9]+)月`)

// separators between crop terms besides whitespace
const termSeparators = ",，、;；"

// IntentClassifier ordered decision list over (text, session mode)
type IntentClassifier struct {
	aliases      *AliasResolver
	priceTrigger string
	unavailable  map[string]struct{}
	help         map[string]struct{}
}

// NewIntentClassifier builds a classifier; phrases are compared after normalization
func NewIntentClassifier(aliases *AliasResolver, priceTrigger string, unavailable, help []string) *IntentClassifier {
	c := &IntentClassifier{
		aliases:      aliases,
		priceTrigger: textnorm.Normalize(priceTrigger),
		unavailable:  make(map[string]struct{}, len(unavailable)),
		help:         make(map[string]struct{}, len(help)),
	}
	for _, p := range unavailable {
		if p = textnorm.Normalize(p); p != "" {
			c.unavailable[p] = struct{}{}
		}
	}
	for _, p := range help {
		if p = textnorm.Normalize(p); p != "" {
			c.help[strings.ToLower(p)] = struct{}{}
		}
	}
	return c
}

// Classify picks the first matching rule. Only the price trigger leaves the session awaiting a crop name.
func (c *IntentClassifier) Classify(text string, mode entity.SessionMode) entity.Decision {
	text = textnorm.Normalize(text)

	if _, ok := c.unavailable[text]; ok {
		return entity.Decision{Intent: entity.IntentSessionTrigger, NextMode: entity.ModeIdle}
	}
	if c.priceTrigger != "" && text == c.priceTrigger {
		return entity.Decision{Intent: entity.IntentPriceTrigger, NextMode: entity.ModeAwaitingCropName}
	}
	if mode == entity.ModeAwaitingCropName {
		return entity.Decision{Intent: entity.IntentPriceQuery, NextMode: entity.ModeIdle, CropTerm: text}
	}
	if _, ok := c.help[strings.ToLower(text)]; ok {
		return entity.Decision{Intent: entity.IntentHelp, NextMode: entity.ModeIdle}
	}

	if month, ok := parseMonth(text); ok {
		typ, _ := c.aliases.DetectType(text)
		return entity.Decision{Intent: entity.IntentMonthQuery, NextMode: entity.ModeIdle, Month: month, Type: typ}
	}

	if regions := c.aliases.DetectRegions(text); len(regions) > 0 {
		typ, _ := c.aliases.DetectType(text)
		return entity.Decision{Intent: entity.IntentRegionQuery, NextMode: entity.ModeIdle, Regions: regions, Type: typ}
	}

	terms := SplitTerms(text)
	if len(terms) == 0 {
		return entity.Decision{Intent: entity.IntentPassthrough, NextMode: entity.ModeIdle}
	}
	return entity.Decision{Intent: entity.IntentCropPeriodQuery, NextMode: entity.ModeIdle, Terms: terms}
}

// parseMonth finds "<digits>月"; full-width digits are accepted. The value is not range checked.
func parseMonth(text string) (int, bool) {
	m := monthRe.FindStringSubmatch(textnorm.FoldDigits(text))
	if m == nil {
		return 0, false
	}
	month, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return month, true
}

// SplitTerms splits on comma variants, semicolons and whitespace, dropping empty pieces
func SplitTerms(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(termSeparators, r)
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = textnorm.Normalize(f); f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}
