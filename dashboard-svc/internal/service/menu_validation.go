package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"kantin-dashboard/dashboard-svc/internal/domain"
)

const (
	maxMenuNameLen        = 100
	maxMenuDescriptionLen = 150
	minMenuPrice          = 1000
	maxMenuPrice          = 1000000
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// ValidateMenuInput normalizes an owner-submitted menu form into a MenuItem
// without identity fields, or returns the first violation.
func ValidateMenuInput(in domain.MenuInput) (domain.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return domain.MenuItem{}, invalid("name", "is required")
	case utf8.RuneCountInString(name) > maxMenuNameLen:
		return domain.MenuItem{}, invalid("name", "must be at most 100 characters")
	case containsEmoji(name):
		return domain.MenuItem{}, invalid("name", "must not contain emoji")
	}

	category := domain.Category(strings.TrimSpace(in.Category))
	if !category.Valid() {
		return domain.MenuItem{}, invalid("category", "must be MAKANAN or MINUMAN")
	}

	priceText := strings.TrimSpace(in.Price)
	if !digitsOnly.MatchString(priceText) {
		return domain.MenuItem{}, invalid("price", "must contain digits only")
	}
	price, err := strconv.Atoi(priceText)
	if err != nil || price < minMenuPrice || price > maxMenuPrice {
		return domain.MenuItem{}, invalid("price", "must be between 1000 and 1000000")
	}

	description := strings.TrimSpace(in.Description)
	switch {
	case utf8.RuneCountInString(description) > maxMenuDescriptionLen:
		return domain.MenuItem{}, invalid("description", "must be at most 150 characters")
	case strings.ContainsAny(description, "<>"):
		return domain.MenuItem{}, invalid("description", "must not contain < or >")
	case containsEmoji(description):
		return domain.MenuItem{}, invalid("description", "must not contain emoji")
	}

	return domain.MenuItem{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
	}, nil
}

func containsEmoji(s string) bool {
	for _, r := range s {
		if isEmoji(r) {
			return true
		}
	}
	return false
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, emoticons, flags, transport
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2300 && r <= 0x23FF, r >= 0x2B00 && r <= 0x2BFF:
		return true
	case r == 0x200D || r == 0xFE0F || r == 0x20E3:
		return true
	}
	return false
}
