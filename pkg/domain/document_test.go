package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "residency/pkg/domain-errors"
)

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		input string
		want  DocumentType
	}{
		{"1", DocumentTypeNationalID},
		{"DNI", DocumentTypeNationalID},
		{" national_id ", DocumentTypeNationalID},
		{"2", DocumentTypePassport},
		{"Passport", DocumentTypePassport},
		{"3", DocumentTypeResidencePermit},
		{"residence_card", DocumentTypeResidencePermit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDocumentType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown type is a validation error", func(t *testing.T) {
		_, err := ParseDocumentType("library_card")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("empty type is a validation error", func(t *testing.T) {
		_, err := ParseDocumentType("  ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestNewDocumentIdentity(t *testing.T) {
	t.Run("numbers are normalised", func(t *testing.T) {
		a, err := NewDocumentIdentity(DocumentTypeNationalID, "12345678-z")
		require.NoError(t, err)
		b, err := NewDocumentIdentity(DocumentTypeNationalID, " 12345678Z ")
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.Equal(t, "12345678Z", a.Number)
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("type is part of the identity", func(t *testing.T) {
		dni, _ := NewDocumentIdentity(DocumentTypeNationalID, "12345678Z")
		passport, _ := NewDocumentIdentity(DocumentTypePassport, "12345678Z")

		assert.NotEqual(t, dni.Key(), passport.Key())
		assert.NotEqual(t, dni.Hash(), passport.Hash())
	})

	t.Run("empty number is rejected", func(t *testing.T) {
		_, err := NewDocumentIdentity(DocumentTypeNationalID, " - ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("hash does not contain the raw number", func(t *testing.T) {
		doc, _ := NewDocumentIdentity(DocumentTypeNationalID, "12345678Z")
		assert.NotContains(t, doc.Hash(), "12345678Z")
		assert.Len(t, doc.Hash(), 64)
	})
}
