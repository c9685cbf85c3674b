// internal/domain/payment/validation.go
package payment

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Method is how the shopper pays
type Method string

const (
	MethodCard   Method = "card"
	MethodPayPal Method = "paypal"
	MethodCOD    Method = "cod"
)

var (
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex  = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	digitsRegex = regexp.MustCompile(`^\d+$`)
	phoneNoise  = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	cardNoise   = strings.NewReplacer(" ", "", "-", "")
)

// CardDetails represents card input from the checkout form
type CardDetails struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	HolderName string `json:"holder_name"`
}

// Details represents the contact, shipping and payment fields of a checkout
type Details struct {
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Address   string       `json:"address"`
	City      string       `json:"city"`
	State     string       `json:"state"`
	ZipCode   string       `json:"zip_code"`
	Country   string       `json:"country"`
	Method    Method       `json:"payment_method"`
	Card      *CardDetails `json:"card,omitempty"`
}

// ValidationErrors maps a field name to its message
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the checkout form as of now. It returns nil or ValidationErrors.
func Validate(d *Details, now time.Time) error {
	errs := ValidationErrors{}

	required := map[string]string{
		"email":      d.Email,
		"phone":      d.Phone,
		"first_name": d.FirstName,
		"last_name":  d.LastName,
		"address":    d.Address,
		"city":       d.City,
		"zip_code":   d.ZipCode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = "This field is required"
		}
	}

	if email := strings.TrimSpace(d.Email); email != "" && !emailRegex.MatchString(email) {
		errs["email"] = "Please enter a valid email address"
	}
	if phone := strings.TrimSpace(d.Phone); phone != "" && !phoneRegex.MatchString(phoneNoise.Replace(phone)) {
		errs["phone"] = "Please enter a valid phone number"
	}

	switch d.Method {
	case MethodCard:
		validateCard(d.Card, now, errs)
	case MethodPayPal, MethodCOD:
	case "":
		errs["payment_method"] = "This field is required"
	default:
		errs["payment_method"] = fmt.Sprintf("Unsupported payment method %q", d.Method)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateCard(card *CardDetails, now time.Time, errs ValidationErrors) {
	if card == nil {
		card = &CardDetails{}
	}

	number := NormaliseCardNumber(card.Number)
	switch {
	case number == "":
		errs["card.number"] = "This field is required"
	case len(number) < 13 || len(number) > 19 || !digitsRegex.MatchString(number) || !Luhn(number):
		errs["card.number"] = "Please enter a valid card number"
	}

	if strings.TrimSpace(card.Expiry) == "" {
		errs["card.expiry"] = "This field is required"
	} else if msg := checkExpiry(card.Expiry, now); msg != "" {
		errs["card.expiry"] = msg
	}

	cvv := strings.TrimSpace(card.CVV)
	switch {
	case cvv == "":
		errs["card.cvv"] = "This field is required"
	case len(cvv) < 3 || len(cvv) > 4 || !digitsRegex.MatchString(cvv):
		errs["card.cvv"] = "Please enter a valid CVV"
	}

	if strings.TrimSpace(card.HolderName) == "" {
		errs["card.holder_name"] = "This field is required"
	}
}

// checkExpiry accepts MM/YY; a card is valid through the end of its month
func checkExpiry(expiry string, now time.Time) string {
	month, year, ok := strings.Cut(strings.TrimSpace(expiry), "/")
	if !ok {
		return "Please enter a valid expiry date"
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return "Please enter a valid expiry date"
	}
	y, err := strconv.Atoi(year)
	if err != nil || len(year) != 2 {
		return "Please enter a valid expiry date"
	}

	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	if y < currentYear || (y == currentYear && m < currentMonth) {
		return "Card has expired"
	}
	return ""
}

// NormaliseCardNumber strips spaces and dashes
func NormaliseCardNumber(number string) string {
	return cardNoise.Replace(strings.TrimSpace(number))
}

// Luhn reports whether a digit string passes the mod 10 check
func Luhn(number string) bool {
	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		n := int(number[i] - '0')
		if n > 9 {
			return false
		}
		if alternate {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}

// CardBrand guesses the network from the number prefix
func CardBrand(number string) string {
	number = NormaliseCardNumber(number)
	switch {
	case strings.HasPrefix(number, "4"):
		return "visa"
	case len(number) >= 2 && number[0] == '5' && number[1] >= '1' && number[1] <= '5',
		len(number) >= 2 && number[0] == '2' && number[1] >= '2' && number[1] <= '7':
		return "mastercard"
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "amex"
	case strings.HasPrefix(number, "6"):
		return "discover"
	default:
		return ""
	}
}
