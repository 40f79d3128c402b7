package services

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestContractorDetails_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ContractorDetails)
		want   []string
	}{
		{"complete", func(c *ContractorDetails) {}, nil},
		{"email blank", func(c *ContractorDetails) { c.Email = "   " }, []string{"email"}},
		{"several, form order", func(c *ContractorDetails) {
			c.License = ""
			c.Name = ""
			c.Phone = ""
		}, []string{"name", "phone", "license"}},
		{"all", func(c *ContractorDetails) { *c = ContractorDetails{} }, []string{"name", "address", "phone", "email", "license"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContractor()
			tt.mutate(&c)
			if got := c.MissingFields(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateContractor(t *testing.T) {
	if err := ValidateContractor(validContractor(), "US"); err != nil {
		t.Fatalf("valid contractor rejected: %v", err)
	}

	c := validContractor()
	c.Email = ""
	err := ValidateContractor(c, "US")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Error() != "Please fill in all fields: email" {
		t.Errorf("message = %q", ve.Error())
	}

	c = validContractor()
	c.Email = "not-an-email"
	c.Phone = "12"
	err = ValidateContractor(c, "US")
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, ok := ve.InvalidFields["email"]; !ok {
		t.Errorf("email should be flagged: %+v", ve.InvalidFields)
	}
	if _, ok := ve.InvalidFields["phone"]; !ok {
		t.Errorf("phone should be flagged: %+v", ve.InvalidFields)
	}
	if !strings.HasPrefix(ve.Error(), "Please correct: email: Invalid email format; phone: Invalid phone number, expected a format like (") {
		t.Errorf("message = %q", ve.Error())
	}
}

func TestValidateContractor_PhoneMessageShowsFormat(t *testing.T) {
	tests := []struct {
		region string
		prefix string
	}{
		{"US", "Invalid phone number, expected a format like ("},
		{"us", "Invalid phone number, expected a format like ("},
		{"ZZ", "Invalid phone number"},
	}
	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			c := validContractor()
			c.Phone = "555-123-4567"
			var ve *ValidationError
			if err := ValidateContractor(c, tt.region); !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if msg := ve.InvalidFields["phone"]; !strings.HasPrefix(msg, tt.prefix) {
				t.Errorf("phone message = %q, want prefix %q", msg, tt.prefix)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone, region string
		want          bool
	}{
		{"650-253-0000", "US", true},
		{"(650) 253-0000", "US", true},
		{"+1 650 253 0000", "GB", true},
		{"12", "US", false},
		{"call me", "US", false},
	}
	for _, tt := range tests {
		if got := ValidatePhone(tt.phone, tt.region); got != tt.want {
			t.Errorf("ValidatePhone(%q, %q) = %v, want %v", tt.phone, tt.region, got, tt.want)
		}
	}
}

func TestContractorDetails_Trimmed(t *testing.T) {
	c := ContractorDetails{Name: " Acme ", Email: "a@b.co\n"}.Trimmed()
	if c.Name != "Acme" || c.Email != "a@b.co" {
		t.Errorf("Trimmed() = %+v", c)
	}
}
