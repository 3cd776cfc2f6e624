package utils

import (
	"crypto/rand"
	"strings"
)

// Document types forwarded to the report worker.
const (
	DocumentTypeIndividual   = "INDIVIDUAL"
	DocumentTypeOrganization = "ORGANIZATION"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CleanDocument strips everything but digits from a document number
// (CPF/CNPJ arrive with dots, dashes and slashes).
func CleanDocument(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for _, r := range term {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DocumentTypeForTerm infers the subject type from a cleaned term: an
// 11-digit document is an individual, anything else an organization.
func DocumentTypeForTerm(term string) string {
	if len(CleanDocument(term)) == 11 {
		return DocumentTypeIndividual
	}
	return DocumentTypeOrganization
}

// NormalizeCode upper-cases and trims a purchase code so webhook external
// references match regardless of the provider's casing.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GeneratePurchaseCode returns a random human-facing purchase code. The
// alphabet skips 0/O/1/I to keep codes readable over the phone.
func GeneratePurchaseCode(length int) (string, error) {
	if length <= 0 {
		length = 8
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
