package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid faz uma checagem barata de que o domínio do
// e-mail resolve (MX ou A/AAAA) antes de criarmos a conta.
func IsEmailDomainValid(email string) bool {
	domain, ok := emailDomain(email)
	if !ok {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}
	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}

func emailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return "", false
	}
	return email[at+1:], true
}
