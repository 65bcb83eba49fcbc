// internal/extract/clean_test.go

package extract

import "testing"

func TestNormalizeZip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"62701", "62701"},
		{"1234", "01234"},
		{"123456789", "12345"},
		{"12345-6789", "12345"},
		{"zip 987", "00987"},
		{"", ""},
		{"no digits", ""},
	}
	for _, tt := range tests {
		if got := NormalizeZip(tt.input); got != tt.want {
			t.Errorf("NormalizeZip(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5551234567", "(555) 123-4567"},
		{"15551234567", "(555) 123-4567"},
		{"555-123-4567", "(555) 123-4567"},
		{"(555) 123-4567", "(555) 123-4567"},
		{"  call me maybe  ", "call me maybe"},
		{"123", "123"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatPhone(tt.input); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatPhoneStrict(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5551234567", "(555) 123-4567"},
		{"15551234567", "(555) 123-4567"},
		{"+1 (555) 123-4567", "(555) 123-4567"},
		{"555-1234", ""},
		{"call me maybe", ""},
		{"25551234567", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatPhoneStrict(tt.input); got != tt.want {
			t.Errorf("FormatPhoneStrict(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"$250,000", "250000"},
		{"$1,250.50", "1250.50"},
		{"$", ""},
		{"no price here", ""},
	}
	for _, tt := range tests {
		if got := CleanCurrency(tt.input); got != tt.want {
			t.Errorf("CleanCurrency(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanYear(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Built in 1987", "1987"},
		{"2005", "2005"},
		{"1800", ""},
		{"year unknown", ""},
	}
	for _, tt := range tests {
		if got := CleanYear(tt.input); got != tt.want {
			t.Errorf("CleanYear(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanPriceText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Price, $450,000", "$450,000"},
		{"$450,000—Est.", "$450,000"},
		{"Price, $450,000—Est.", "$450,000"},
		{"$450,000 Est", "$450,000"},
		{"$450,000", "$450,000"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanPriceText(tt.input); got != tt.want {
			t.Errorf("CleanPriceText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsPlaceholder(t *testing.T) {
	for _, v := range []string{"", "n/a", "N/A", "na", "Not Available", "none", "  None  "} {
		if !IsPlaceholder(v) {
			t.Errorf("expected %q to be a placeholder", v)
		}
	}
	for _, v := range []string{"$100", "John Smith", "0"} {
		if IsPlaceholder(v) {
			t.Errorf("did not expect %q to be a placeholder", v)
		}
	}
}

func TestExtractEmail(t *testing.T) {
	got := ExtractEmail("contact the owner at jane.doe@example.com for details")
	if got != "jane.doe@example.com" {
		t.Errorf("ExtractEmail = %q", got)
	}
	if got := ExtractEmail("no email here"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestExtractPhone(t *testing.T) {
	got := ExtractPhone("call 555.123.4567 today")
	if got != "(555) 123-4567" {
		t.Errorf("ExtractPhone = %q", got)
	}
}

func TestPhoneBlacklist(t *testing.T) {
	b := NewPhoneBlacklist([]string{"1-844-759-7732", "844-759-7732", "(555) 000-1111"})

	if !b.Contains("(844) 759-7732") {
		t.Error("expected formatted variant of blacklisted number to match")
	}
	if !b.Contains("18447597732") {
		t.Error("expected digit variant of blacklisted number to match")
	}
	if b.Contains("(555) 123-4567") {
		t.Error("did not expect clean number to match")
	}

	var empty PhoneBlacklist
	if empty.Contains("(844) 759-7732") {
		t.Error("nil blacklist should match nothing")
	}
}
