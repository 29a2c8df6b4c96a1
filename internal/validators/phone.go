package validators

import "strings"

// NormalizePhone remove máscara ("(11) 99000-0000" etc.) e valida o
// tamanho. Devolve o número limpo, com o + preservado se houver.
func NormalizePhone(phone string) (string, bool) {
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// máscara
		default:
			return "", false
		}
	}

	cleaned := b.String()
	digits := strings.TrimPrefix(cleaned, "+")
	if len(digits) < 8 || len(digits) > 15 {
		return "", false
	}
	return cleaned, true
}
