package utils

import (
	"bufio"
	"os"
	"strings"
	"unicode"
)

// Terms shorter than this only match whole words of a label, so that "max"
// does not match "Cinemax" and "ocs" does not match "Docsville".
const wholeWordTermLen = 4

// AddonRule maps an addon label substring to the platform it really is.
// Platform may be empty, in which case callers derive it from the addon itself.
type AddonRule struct {
	Term     string
	Platform string
}

// AllowList holds the addon channels worth keeping. Rules are matched in
// order, so more specific terms must come first.
type AllowList struct {
	rules []AddonRule
}

// DefaultAddonRules is used when no allow-list file exists
var DefaultAddonRules = []AddonRule{
	{Term: "canal", Platform: "Canal+"},
	{Term: "paramount", Platform: "Paramount+"},
	{Term: "starz", Platform: "Starz"},
	{Term: "mgm", Platform: "MGM+"},
	{Term: "ocs", Platform: "OCS"},
	{Term: "crave", Platform: "Crave"},
	{Term: "lionsgate", Platform: "Lionsgate+"},
	{Term: "pass warner", Platform: "Pass Warner"},
	{Term: "hbo", Platform: "Max"},
	{Term: "max", Platform: "Max"},
}

// NewAllowList builds an allow-list from rules
func NewAllowList(rules []AddonRule) *AllowList {
	cleaned := make([]AddonRule, 0, len(rules))
	for _, r := range rules {
		term := strings.ToLower(strings.TrimSpace(r.Term))
		if term == "" {
			continue
		}
		cleaned = append(cleaned, AddonRule{Term: term, Platform: strings.TrimSpace(r.Platform)})
	}
	return &AllowList{rules: cleaned}
}

// LoadAllowList loads addon rules from a file.
// Each non-comment line is either "term" or "term = Platform".
func LoadAllowList(path string) (*AllowList, error) {
	// If file doesn't exist, use the built-in rules
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewAllowList(DefaultAddonRules), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rules []AddonRule
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		term, platform, _ := strings.Cut(line, "=")
		rules = append(rules, AddonRule{Term: term, Platform: platform})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return NewAllowList(rules), nil
}

// Match checks an addon label against the allow-list (case-insensitive).
// Long terms match as substrings, short ones as whole words.
// Returns the matched rule and whether any rule matched.
func (a *AllowList) Match(label string) (AddonRule, bool) {
	labelLower := strings.ToLower(label)
	if labelLower == "" {
		return AddonRule{}, false
	}
	words := splitWords(labelLower)

	for _, rule := range a.rules {
		if len(rule.Term) < wholeWordTermLen {
			if containsWords(words, splitWords(rule.Term)) {
				return rule, true
			}
			continue
		}
		if strings.Contains(labelLower, rule.Term) {
			return rule, true
		}
	}

	return AddonRule{}, false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsWords reports whether term appears as a contiguous run of words
func containsWords(words, term []string) bool {
	if len(term) == 0 {
		return false
	}
	for i := 0; i+len(term) <= len(words); i++ {
		match := true
		for j, w := range term {
			if words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Len returns the number of rules
func (a *AllowList) Len() int {
	return len(a.rules)
}
