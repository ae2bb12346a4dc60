package patients

import (
	"errors"
	"testing"
)

func TestParseResidentNumber_Valid(t *testing.T) {
	cases := []struct {
		in        string
		birthDate string
		sex       Sex
	}{
		{"900101-1234567", "1990-01-01", SexMale},
		{"900101-2234567", "1990-01-01", SexFemale},
		{"051231-3234567", "2005-12-31", SexMale},
		{"051231-4234567", "2005-12-31", SexFemale},
		{"900101-5234567", "1990-01-01", SexMale}, // extranjero, siglo 19xx
		{"051231-8234567", "2005-12-31", SexFemale},
		{"9001011234567", "1990-01-01", SexMale},    // sin guion
		{"900101 - 1234567", "1990-01-01", SexMale}, // con espacios
	}

	for _, tc := range cases {
		bd, sex, err := ParseResidentNumber(tc.in)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if bd != tc.birthDate || sex != tc.sex {
			t.Fatalf("%s: got (%s, %s), want (%s, %s)", tc.in, bd, sex, tc.birthDate, tc.sex)
		}
	}
}

func TestParseResidentNumber_Invalid(t *testing.T) {
	cases := []string{
		"",
		"12345",                // corto
		"900101-123456",        // identificador de 6 dígitos
		"901301-1234567",       // mes 13
		"900100-1234567",       // día 0
		"900132-1234567",       // día 32
		"900101-9234567",       // dígito de siglo inválido
		"900101-0234567",       // dígito de siglo inválido
		"90010a-1234567",       // no numérico
		"900101-1234567-extra", // basura al final
	}

	for _, in := range cases {
		if _, _, err := ParseResidentNumber(in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%q: expected ErrInvalidInput, got %v", in, err)
		}
	}
}
