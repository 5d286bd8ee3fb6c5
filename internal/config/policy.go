package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Policy holds the moderation and cleanup rule lists. The lists change far
// more often than the code, so they live in a versioned JSON file.
type Policy struct {
	Version           string   `json:"version"`
	BlockedPhrases    []string `json:"blocked_phrases"`
	WhitelistedPhones []string `json:"whitelisted_phones"`
	WhitelistedLinks  []string `json:"whitelisted_links"`
	ForbiddenWords    []string `json:"forbidden_words"`
	// ForbiddenMatch is "substring" (default) or "word".
	ForbiddenMatch string `json:"forbidden_match"`
	// ForbiddenAction is "redirect" (default) or "reject".
	ForbiddenAction string `json:"forbidden_action"`
}

func DefaultPolicy() Policy {
	return Policy{
		Version: "builtin",
		BlockedPhrases: []string{
			"לעדכוני",
			"בטלגרם",
			"'הכי חם ברשת - 'הערינג",
			"וואטצפ",
			"טלגרם",
			"לשליחת חומרים",
		},
		WhitelistedPhones: []string{"053-419-0216", "050-123-4567"},
		WhitelistedLinks:  []string{"https://t.me/Moshepargod"},
		ForbiddenMatch:    "substring",
		ForbiddenAction:   "redirect",
	}
}

// LoadPolicy reads the policy file at path. An empty path yields the
// built-in defaults; fields absent from the file keep their defaults.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy %s: %w", path, err)
	}
	switch p.ForbiddenMatch {
	case "", "substring", "word":
	default:
		return Policy{}, fmt.Errorf("policy %s: unknown forbidden_match %q", path, p.ForbiddenMatch)
	}
	switch p.ForbiddenAction {
	case "", "redirect", "reject":
	default:
		return Policy{}, fmt.Errorf("policy %s: unknown forbidden_action %q", path, p.ForbiddenAction)
	}
	return p, nil
}

// LoadPrompt returns the classifier instructions stored at path, or def
// when the file does not exist.
func LoadPrompt(path, def string) (string, error) {
	if path == "" {
		return def, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", path, err)
	}
	return string(data), nil
}
