// Package token генерирует непрозрачные API-токены пользователей.
package token

import (
	"crypto/rand"
	"fmt"
	"io"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// 256 - 256%62: байты не меньше этого значения отбрасываются, чтобы не было смещения по модулю.
const maxUnbiased = 248

// DefaultLength длина случайной части токена по умолчанию.
const DefaultLength = 32

// Generator выдаёт токены вида prefix + length символов [0-9A-Za-z].
type Generator struct {
	prefix string
	length int
	rand   io.Reader
}

// NewGenerator создает генератор с криптографически стойким источником случайности.
func NewGenerator(prefix string, length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{prefix: prefix, length: length, rand: rand.Reader}
}

// Generate возвращает новый токен.
func (g *Generator) Generate() (string, error) {
	const op = "token.Generate"

	out := make([]byte, 0, len(g.prefix)+g.length)
	out = append(out, g.prefix...)

	buf := make([]byte, g.length)
	for len(out) < len(g.prefix)+g.length {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		for _, b := range buf {
			if b >= maxUnbiased {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == len(g.prefix)+g.length {
				break
			}
		}
	}
	return string(out), nil
}
