package form

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email     string `form:"email" validate:"required,email"`
	FirstName string `form:"first_name" validate:"required,max=5"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
	Rating    int    `form:"rating" validate:"min=1,max=5"`
	Scale     string `form:"scale" validate:"omitempty,oneof=1:18 1:64"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate("signup", signupForm{
		Email:     "ana@example.com",
		FirstName: "Ana",
		Password1: "longenough",
		Password2: "longenough",
		Rating:    3,
	})
	assert.NoError(t, err)
}

func TestValidate_FieldMessages(t *testing.T) {
	err := Validate("signup", signupForm{
		Email:     "not-an-email",
		FirstName: "Bartholomew",
		Password1: "short",
		Password2: "different",
		Rating:    9,
		Scale:     "1:32",
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	fields := domain.GetValidationFields(err)
	assert.Equal(t, "Enter a valid email address.", fields["email"])
	assert.Equal(t, "Ensure this value has at most 5 characters.", fields["first_name"])
	assert.Equal(t, "Ensure this value has at least 8 characters.", fields["password1"])
	assert.Equal(t, "The two password fields didn't match.", fields["password2"])
	assert.Equal(t, "Ensure this value is less than or equal to 5.", fields["rating"])
	assert.Equal(t, "Select a valid choice.", fields["scale"])
}

func TestValidate_Required(t *testing.T) {
	err := Validate("signup", signupForm{Rating: 1})
	fields := domain.GetValidationFields(err)
	assert.Equal(t, "This field is required.", fields["email"])
	assert.Equal(t, "This field is required.", fields["first_name"])
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

type productForm struct {
	Name       string `form:"name"`
	Price      string `form:"price"`
	IsFeatured bool   `form:"is_featured"`
	IsNew      bool   `form:"is_new_arrival"`
	Ignored    string
}

func TestDecode(t *testing.T) {
	body := url.Values{
		"name":        {"  Skyline GT-R "},
		"price":       {"4.99"},
		"is_featured": {"on"},
		"Ignored":     {"x"},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/products/new", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var f productForm
	require.NoError(t, Decode(req, &f))

	assert.Equal(t, "  Skyline GT-R ", f.Name)
	assert.Equal(t, "4.99", f.Price)
	assert.True(t, f.IsFeatured)
	assert.False(t, f.IsNew)
	assert.Empty(t, f.Ignored)
}

func TestDecode_Query(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?name=civic&is_featured=false", nil)

	var f productForm
	require.NoError(t, Decode(req, &f))

	assert.Equal(t, "civic", f.Name)
	assert.False(t, f.IsFeatured)
}

func TestDecode_RequiresStructPointer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Error(t, Decode(req, productForm{}))
}
