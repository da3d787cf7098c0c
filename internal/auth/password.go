package auth

import (
	"sync"

	"github.com/alexedwards/argon2id"
)

var hashParams = &argon2id.Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

var (
	decoyOnce sync.Once
	decoyHash string
)

// HashPassword gera o hash argon2id gravado na coluna users.password.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, hashParams)
}

// VerifyPassword compara a senha com o hash armazenado.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, encodedHash)
}

// BurnVerify gasta o mesmo custo de uma verificação real. Usado quando o
// usuário não existe, para que o tempo de resposta não revele contas.
func BurnVerify(password string) {
	decoyOnce.Do(func() {
		decoyHash, _ = argon2id.CreateHash("decoy-password", hashParams)
	})
	if decoyHash != "" {
		_, _ = argon2id.ComparePasswordAndHash(password, decoyHash)
	}
}
