package patients

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// El número de registro civil coreano (주민등록번호) codifica fecha de
// nacimiento y sexo: YYMMDD-SXXXXXX, donde S decide siglo y sexo.
// Solo se extrae eso; el número nunca se persiste.

var residentNumberPattern = regexp.MustCompile(`^(\d{6})(\d{7})$`)

// ParseResidentNumber valida el número y devuelve (fecha de nacimiento
// YYYY-MM-DD, sexo). Acepta el formato con o sin guion.
func ParseResidentNumber(residentNumber string) (string, Sex, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(residentNumber)

	m := residentNumberPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return "", "", fmt.Errorf("%w: resident number must be 13 digits (e.g. 900101-1234567)", ErrInvalidInput)
	}

	birthPart, idPart := m[1], m[2]

	month, _ := strconv.Atoi(birthPart[2:4])
	if month < 1 || month > 12 {
		return "", "", fmt.Errorf("%w: resident number month out of range", ErrInvalidInput)
	}
	day, _ := strconv.Atoi(birthPart[4:6])
	if day < 1 || day > 31 {
		return "", "", fmt.Errorf("%w: resident number day out of range", ErrInvalidInput)
	}

	// El primer dígito del identificador fija el siglo: 1,2,5,6 => 1900;
	// 3,4,7,8 => 2000. Impar varón, par mujer.
	var century string
	first := int(idPart[0] - '0')
	switch first {
	case 1, 2, 5, 6:
		century = "19"
	case 3, 4, 7, 8:
		century = "20"
	default:
		return "", "", fmt.Errorf("%w: resident number century digit invalid", ErrInvalidInput)
	}

	birthDate := century + birthPart[:2] + "-" + birthPart[2:4] + "-" + birthPart[4:6]

	sex := SexFemale
	if first%2 == 1 {
		sex = SexMale
	}

	return birthDate, sex, nil
}
