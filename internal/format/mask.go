// internal/format/mask.go
package format

import "strings"

// MaskKind selects the masking rule for a sensitive identifier.
type MaskKind string

const (
	MaskCard    MaskKind = "card"
	MaskPhone   MaskKind = "phone"
	MaskAccount MaskKind = "account"
	MaskEmail   MaskKind = "email"
	MaskAadhaar MaskKind = "aadhaar"
	MaskPAN     MaskKind = "pan"
)

const (
	maskChar          = 'X'
	accountMaskPrefix = "XXXXXX"
)

// Mask hides all but the identifying tail of value according to kind.
func Mask(value string, kind MaskKind) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	switch kind {
	case MaskCard, MaskPhone, MaskAadhaar:
		return maskDigits(value, 4)
	case MaskAccount:
		return maskAccount(value)
	case MaskEmail:
		return maskEmail(value)
	case MaskPAN:
		return maskPAN(value)
	default:
		return maskDigits(value, 4)
	}
}

// maskDigits replaces every digit except the last keep with the mask
// character; separators are preserved.
func maskDigits(value string, keep int) string {
	total := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			total++
		}
	}
	if total <= keep {
		return value
	}
	seen := 0
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			seen++
			if seen <= total-keep {
				b.WriteRune(maskChar)
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func maskAccount(value string) string {
	compact := []rune(strings.ReplaceAll(value, " ", ""))
	if len(compact) <= 4 {
		return accountMaskPrefix + string(compact)
	}
	return accountMaskPrefix + string(compact[len(compact)-4:])
}

func maskEmail(value string) string {
	at := strings.LastIndexByte(value, '@')
	if at <= 0 {
		return maskDigits(value, 4)
	}
	local, domain := []rune(value[:at]), value[at:]
	keep := 2
	if len(local) < keep {
		keep = len(local)
	}
	return string(local[:keep]) + "****" + domain
}

// maskPAN keeps the first two and last two characters of a PAN.
func maskPAN(value string) string {
	r := []rune(value)
	if len(r) <= 4 {
		return value
	}
	return string(r[:2]) + strings.Repeat(string(maskChar), len(r)-4) + string(r[len(r)-2:])
}
