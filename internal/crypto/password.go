// Package crypto хеширует и проверяет пароли пользователей.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Params задают стоимость argon2id для хеширования паролей
type Params struct {
	Time    uint32 // количество итераций (time cost)
	Memory  uint32 // объем памяти в KiB
	KeyLen  uint32 // длина выходного ключа в байтах
	SaltLen uint32 // длина соли в байтах
	Threads uint8  // количество параллельных потоков
}

// DefaultParams используются сервером по умолчанию (64MB, 1 итерация, 4 потока)
var DefaultParams = Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

// maxMemory верхняя граница m (KiB) для хешей, прочитанных из хранилища
const maxMemory = 1 << 20

var errMalformedHash = errors.New("malformed password hash")

// Hasher хеширует и проверяет пароли.
// Формат хеша: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key> (base64 без паддинга).
// Verify также принимает bcrypt хеши ($2a$, $2b$, $2y$), перенесенные из предыдущей версии сервиса.
type Hasher struct {
	params Params
}

// NewHasher создает Hasher с заданными параметрами
func NewHasher(params Params) *Hasher {
	return &Hasher{params: params}
}

// Hash возвращает соленый argon2id хеш пароля
func (h *Hasher) Hash(secret string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify проверяет пароль против сохраненного хеша.
// Несовпадение и поврежденный хеш дают false, а не ошибку.
func (h *Hasher) Verify(secret, hashed string) bool {
	if isBcrypt(hashed) {
		return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
	}

	params, salt, key, err := decodeArgon2id(hashed)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(secret), salt, params.Time, params.Memory, params.Threads, params.KeyLen)
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

// NeedsRehash сообщает, что хеш создан устаревшим алгоритмом или параметрами
// и должен быть пересчитан после следующего успешного входа
func (h *Hasher) NeedsRehash(hashed string) bool {
	if isBcrypt(hashed) {
		return true
	}

	params, salt, _, err := decodeArgon2id(hashed)
	if err != nil {
		return true
	}

	return params.Time != h.params.Time ||
		params.Memory != h.params.Memory ||
		params.Threads != h.params.Threads ||
		params.KeyLen != h.params.KeyLen ||
		uint32(len(salt)) != h.params.SaltLen
}

func isBcrypt(hashed string) bool {
	return strings.HasPrefix(hashed, "$2a$") ||
		strings.HasPrefix(hashed, "$2b$") ||
		strings.HasPrefix(hashed, "$2y$")
}

func decodeArgon2id(hashed string) (Params, []byte, []byte, error) {
	var params Params

	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return params, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("%w: %w", errMalformedHash, err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: unsupported argon2 version %d", errMalformedHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return params, nil, nil, fmt.Errorf("%w: %w", errMalformedHash, err)
	}
	if params.Time == 0 || params.Threads == 0 || params.Memory == 0 || params.Memory > maxMemory {
		return params, nil, nil, fmt.Errorf("%w: invalid parameters", errMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: %w", errMalformedHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, errMalformedHash
	}

	params.KeyLen = uint32(len(key))
	params.SaltLen = uint32(len(salt))

	return params, salt, key, nil
}
