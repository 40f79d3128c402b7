package services

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/ttacon/libphonenumber"
)

// ContractorDetails identifies the contractor on the RAP document.
type ContractorDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	License string `json:"license"`
}

// ContractorField is one contractor form field with its display label.
type ContractorField struct {
	Name  string
	Label string
}

// ContractorFields is the contractor form in display order. Missing-field
// errors list names in this order.
var ContractorFields = []ContractorField{
	{Name: "name", Label: "Contractor Name"},
	{Name: "address", Label: "Business Address"},
	{Name: "phone", Label: "Phone Number"},
	{Name: "email", Label: "Email Address"},
	{Name: "license", Label: "GC License Number"},
}

// Value returns the field's value by form name.
func (c ContractorDetails) Value(field string) string {
	switch field {
	case "name":
		return c.Name
	case "address":
		return c.Address
	case "phone":
		return c.Phone
	case "email":
		return c.Email
	case "license":
		return c.License
	}
	return ""
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (c ContractorDetails) Trimmed() ContractorDetails {
	return ContractorDetails{
		Name:    strings.TrimSpace(c.Name),
		Address: strings.TrimSpace(c.Address),
		Phone:   strings.TrimSpace(c.Phone),
		Email:   strings.TrimSpace(c.Email),
		License: strings.TrimSpace(c.License),
	}
}

// MissingFields returns the names of empty required fields in form order.
func (c ContractorDetails) MissingFields() []string {
	var missing []string
	for _, f := range ContractorFields {
		if strings.TrimSpace(c.Value(f.Name)) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// ValidateContractor gates the export: every field must be filled in, and
// the email and phone must be well formed. phoneRegion is the default
// region for numbers written without a country code.
func ValidateContractor(c ContractorDetails, phoneRegion string) error {
	if missing := c.MissingFields(); len(missing) > 0 {
		return &ValidationError{MissingFields: missing}
	}

	invalid := make(map[string]string)
	if err := validation.Validate(strings.TrimSpace(c.Email), is.EmailFormat); err != nil {
		invalid["email"] = "Invalid email format"
	}
	if !ValidatePhone(c.Phone, phoneRegion) {
		invalid["phone"] = phoneMessage(phoneRegion)
	}
	if len(invalid) > 0 {
		return &ValidationError{InvalidFields: invalid}
	}
	return nil
}

// phoneMessage names the expected format using the region's example number.
func phoneMessage(region string) string {
	example := libphonenumber.GetExampleNumber(strings.ToUpper(strings.TrimSpace(region)))
	if example == nil {
		return "Invalid phone number"
	}
	return "Invalid phone number, expected a format like " + libphonenumber.Format(example, libphonenumber.NATIONAL)
}

// ValidatePhone reports whether phone is a valid number for region.
func ValidatePhone(phone, region string) bool {
	p, err := libphonenumber.Parse(strings.TrimSpace(phone), region)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(p)
}
