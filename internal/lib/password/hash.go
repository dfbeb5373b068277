// Package password реализует хеширование паролей и их проверку.
//
// Hasher создает bcrypt-хеш пароля для хранения в базе и сравнивает
// сохранённый хеш с введённым паролем за постоянное время.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher хеширует пароли с заданной стоимостью bcrypt.
type Hasher struct {
	cost int
}

// NewHasher создает Hasher. Некорректная стоимость заменяется на bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash возвращает bcrypt‑хэш пароля.
func (h *Hasher) Hash(plain string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сравнивает bcrypt‑хэш с введённым паролем.
//
// При несовпадении пароля возвращается (false, nil); ошибка возвращается только для испорченного хеша.
func (h *Hasher) Compare(hash, plain string) (bool, error) {
	const op = "password.Compare"
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", op, err)
	}
}
