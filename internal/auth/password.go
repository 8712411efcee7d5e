package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of the password using DefaultCost.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a bcrypt hashed password with its possible plaintext equivalent.
func CheckPassword(hash string, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Operators - учетные записи администраторов мира: имя -> bcrypt-хеш пароля
type Operators map[string]string

// Authenticate проверяет пароль оператора
func (o Operators) Authenticate(name, password string) bool {
	hash, ok := o[name]
	if !ok || hash == "" {
		return false
	}
	return CheckPassword(hash, password)
}
