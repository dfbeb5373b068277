package account

import "strings"

// Policy правила допуска адресов к регистрации.
// Пустой список доменов разрешает любой адрес.
type Policy struct {
	AllowedDomains   []string
	AllowedAddresses []string
}

// Allows сообщает, можно ли зарегистрировать адрес. Адреса из AllowedAddresses
// разрешены всегда, остальные должны оканчиваться на один из доменов.
func (p Policy) Allows(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, addr := range p.AllowedAddresses {
		if strings.EqualFold(strings.TrimSpace(addr), email) {
			return true
		}
	}
	if len(p.AllowedDomains) == 0 {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, d := range p.AllowedDomains {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@"))
		if d != "" && (domain == d || strings.HasSuffix(domain, "."+d)) {
			return true
		}
	}
	return false
}
