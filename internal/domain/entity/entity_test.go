package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PageSize: 10}, NewPagination(0, 0))
	assert.Equal(t, Pagination{Page: 3, PageSize: 100}, NewPagination(3, 500))
	assert.Equal(t, Pagination{Page: 1, PageSize: 25}, NewPagination(-4, 25))
	assert.Equal(t, 50, NewPagination(3, 25).Offset())
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, 21, NewPagination(1, 10))
	assert.Equal(t, 3, page.TotalPages)
	assert.EqualValues(t, 21, page.TotalCount)

	empty := NewPage[int](nil, 0, NewPagination(1, 10))
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)

	mapped := MapPage(page, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c", "d"}, mapped.Items)
	assert.Equal(t, page.TotalPages, mapped.TotalPages)
}

func TestCartItem_SameLine(t *testing.T) {
	variant := uint(3)
	otherVariant := uint(4)

	plain := CartItem{ProductID: 5}
	assert.True(t, plain.SameLine(5, nil))
	assert.False(t, plain.SameLine(5, &variant))
	assert.False(t, plain.SameLine(6, nil))

	withVariant := CartItem{ProductID: 5, VariantID: &variant}
	assert.True(t, withVariant.SameLine(5, &variant))
	assert.False(t, withVariant.SameLine(5, &otherVariant))
	assert.False(t, withVariant.SameLine(5, nil))
}

func TestStatusVocabularies(t *testing.T) {
	assert.True(t, PaymentStatus("Completed").IsValid())
	assert.False(t, PaymentStatus("completed").IsValid())
	assert.False(t, PaymentStatus("Refunded").IsValid())
	assert.Len(t, PaymentStatuses(), 5)

	assert.True(t, PaymentMethod("Bank Transfer").IsValid())
	assert.False(t, PaymentMethod("Crypto").IsValid())

	assert.True(t, ShippingStatus("Out for Delivery").IsValid())
	assert.False(t, ShippingStatus("Lost").IsValid())
	assert.Len(t, ShippingStatuses(), 7)

	assert.True(t, ComplaintStatus("In Progress").IsValid())
	assert.False(t, ComplaintStatus("Open").IsValid())
	assert.Len(t, ComplaintStatuses(), 5)
}

func TestProduct_EffectivePrice(t *testing.T) {
	discount := 25.0
	assert.InDelta(t, 100.0, (&Product{Price: 100}).EffectivePrice(), 0.001)
	assert.InDelta(t, 75.0, (&Product{Price: 100, Discount: &discount}).EffectivePrice(), 0.001)
}

func TestProductVariant_Label(t *testing.T) {
	assert.Equal(t, "M / Red", (&ProductVariant{Size: "M", Color: "Red"}).Label())
	assert.Equal(t, "Blue", (&ProductVariant{Color: "Blue"}).Label())
	assert.Equal(t, "", (&ProductVariant{}).Label())
}

func TestUsernameKey(t *testing.T) {
	assert.Equal(t, "alice", UsernameKey("  Alice "))
	assert.Equal(t, "Alice", NormalizeUsername(" Alice\t"))
}

func TestCredentialRules(t *testing.T) {
	assert.Empty(t, UsernameProblem("  bob  "))
	assert.NotEmpty(t, UsernameProblem(" bo "))
	assert.NotEmpty(t, UsernameProblem(string(make([]rune, 51))))

	assert.Empty(t, PasswordProblem("Secret123"))
	assert.NotEmpty(t, PasswordProblem("Se1"))
	assert.NotEmpty(t, PasswordProblem("secret123"))
	assert.NotEmpty(t, PasswordProblem("SECRET123"))
	assert.NotEmpty(t, PasswordProblem("SecretABC"))
	assert.Empty(t, PasswordProblem(strings.Repeat("Aa1", 24)))
	assert.Equal(t, "must be at most 72 bytes", PasswordProblem(strings.Repeat("Aa1", 24)+"x"))
	assert.Equal(t, "must be at most 72 bytes", PasswordProblem("Aa1"+strings.Repeat("é", 35)))

	assert.True(t, ValidPhone("0912345678"))
	assert.True(t, ValidPhone("+84912345678"))
	assert.False(t, ValidPhone("0212345678"))
	assert.False(t, ValidPhone("091234567"))

	assert.True(t, ValidEmail("bob@example.com"))
	assert.False(t, ValidEmail("Bob <bob@example.com>"))
	assert.False(t, ValidEmail("not-an-email"))
}
