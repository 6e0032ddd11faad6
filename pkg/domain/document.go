package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	dErrors "residency/pkg/domain-errors"
)

// DocumentType is a government identity document kind accepted for residency
// verification. It is a domain primitive: only values returned by
// ParseDocumentType are valid.
type DocumentType string

const (
	DocumentTypeNationalID      DocumentType = "national_id"
	DocumentTypePassport        DocumentType = "passport"
	DocumentTypeResidencePermit DocumentType = "residence_permit"
)

// documentTypeAliases maps form values onto canonical types. The residence
// form posts numeric codes ("1" is DNI); API clients send names.
var documentTypeAliases = map[string]DocumentType{
	"1":                DocumentTypeNationalID,
	"dni":              DocumentTypeNationalID,
	"national_id":      DocumentTypeNationalID,
	"2":                DocumentTypePassport,
	"passport":         DocumentTypePassport,
	"3":                DocumentTypeResidencePermit,
	"nie":              DocumentTypeResidencePermit,
	"residence_card":   DocumentTypeResidencePermit,
	"residence_permit": DocumentTypeResidencePermit,
}

// ParseDocumentType normalises a form or API value into a DocumentType.
func ParseDocumentType(s string) (DocumentType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", dErrors.New(dErrors.CodeValidation, "document_type is required")
	}
	t, ok := documentTypeAliases[key]
	if !ok {
		return "", dErrors.New(dErrors.CodeValidation, "unknown document_type: "+s)
	}
	return t, nil
}

func (t DocumentType) String() string {
	return string(t)
}

// maxDocumentNumberLength bounds document numbers; real ones are far shorter.
const maxDocumentNumberLength = 32

// DocumentIdentity is the (type, number) pair identifying an identity
// document. At most one verified citizen may be bound to a given identity.
type DocumentIdentity struct {
	Type   DocumentType
	Number string
}

// NewDocumentIdentity normalises the number (trimmed, upper-cased, inner
// spaces and dashes removed) so "12345678-z" and "12345678Z" are the same
// document.
func NewDocumentIdentity(t DocumentType, number string) (DocumentIdentity, error) {
	n := normalizeDocumentNumber(number)
	if n == "" {
		return DocumentIdentity{}, dErrors.New(dErrors.CodeValidation, "document_number is required")
	}
	if len(n) > maxDocumentNumberLength {
		return DocumentIdentity{}, dErrors.New(dErrors.CodeValidation, "document_number is too long")
	}
	return DocumentIdentity{Type: t, Number: n}, nil
}

// Key is a stable string form used by stores for map keys and lock sharding.
func (d DocumentIdentity) Key() string {
	return string(d.Type) + ":" + d.Number
}

// Hash returns a hex SHA-256 of the identity for audit trails, so raw
// document numbers never leave the index.
func (d DocumentIdentity) Hash() string {
	sum := sha256.Sum256([]byte(d.Key()))
	return hex.EncodeToString(sum[:])
}

func (d DocumentIdentity) IsZero() bool {
	return d.Type == "" && d.Number == ""
}

func normalizeDocumentNumber(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if unicode.IsSpace(r) || r == '-' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
