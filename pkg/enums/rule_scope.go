package enums

import "fmt"

// RuleScope describes the breadth of products a price rule applies to.
type RuleScope string

const (
	RuleScopeGlobal   RuleScope = "global"
	RuleScopeCategory RuleScope = "category"
	RuleScopeProduct  RuleScope = "product"
)

var validRuleScopes = []RuleScope{
	RuleScopeGlobal,
	RuleScopeCategory,
	RuleScopeProduct,
}

// String implements fmt.Stringer.
func (s RuleScope) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RuleScope.
func (s RuleScope) IsValid() bool {
	for _, candidate := range validRuleScopes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRuleScope converts raw input into a RuleScope.
func ParseRuleScope(value string) (RuleScope, error) {
	for _, candidate := range validRuleScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule scope %q", value)
}
