package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuc(t *testing.T) {
	assert.Equal(t, "20123456789", Ruc("20-123.456-789"))
	assert.Equal(t, "20123456789", Ruc("20123456789"))
	assert.Equal(t, "ABC123", Ruc("abc 123"))
	assert.Equal(t, "", Ruc("---"))
	assert.Equal(t, "", Ruc(""))
}

func TestRucInsensitiveToFormatting(t *testing.T) {
	// Two input forms of the same tax id must collide.
	assert.Equal(t, Ruc("20-123.456-789"), Ruc("20123456789"))
}

func TestLeadName(t *testing.T) {
	assert.Equal(t, "importadora nunez", LeadName("Importadora Núñez"))
	assert.Equal(t, "acme corp", LeadName("  ACME    Corp  "))
	assert.Equal(t, "cafe sao paulo", LeadName("Café São Paulo"))
}

func TestPhones(t *testing.T) {
	got := Phones([]string{" +51 999 111 222 ", "+51 999 111 222", "", "01 234"})
	assert.Equal(t, []string{"+51 999 111 222", "01 234"}, got)
}

func TestEmails(t *testing.T) {
	got := Emails([]string{"Sales@Acme.COM", "sales@acme.com", "ops@acme.com"})
	assert.Equal(t, []string{"sales@acme.com", "ops@acme.com"}, got)

	assert.Equal(t, []string{}, Emails(nil))
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("acme"))
	assert.True(t, IsValidSlug("acme-logistics-2"))
	assert.False(t, IsValidSlug("Acme"))
	assert.False(t, IsValidSlug("acme--logistics"))
	assert.False(t, IsValidSlug("-acme"))
	assert.False(t, IsValidSlug(""))
}
