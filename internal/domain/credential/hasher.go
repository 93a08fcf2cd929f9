// Package credential deriva y verifica hashes de contraseña con PBKDF2-HMAC-SHA256.
//
// Los parámetros son fijos y forman parte del formato persistido: salt de 16 bytes,
// hash de 32 bytes y 100.000 iteraciones. Cambiarlos invalida todas las credenciales.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 16
	HashSize   = 32
	Iterations = 100_000
)

// dummySalt se usa sólo para igualar el costo de las rutas sin usuario.
var dummySalt = make([]byte, SaltSize)

// Derive calcula PBKDF2-HMAC-SHA256(password, salt). Función pura y determinista.
func Derive(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, HashSize, sha256.New)
}

// GenerateSalt devuelve SaltSize bytes de una fuente criptográficamente segura.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generar salt: %w", err)
	}
	return salt, nil
}

// Verify recalcula el hash y lo compara en tiempo constante.
func Verify(password string, storedHash, storedSalt []byte) bool {
	computed := Derive(password, storedSalt)
	return subtle.ConstantTimeCompare(computed, storedHash) == 1
}

// NewHash genera un salt nuevo y el hash correspondiente. Ambos se devuelven juntos
// para que nunca se persista un hash sin su salt.
func NewHash(password string) (hash, salt []byte, err error) {
	salt, err = GenerateSalt()
	if err != nil {
		return nil, nil, err
	}
	return Derive(password, salt), salt, nil
}

// SimulateVerify ejecuta una derivación descartable. Se llama cuando no existe
// usuario para que el tiempo de respuesta no revele si la cuenta existe.
func SimulateVerify(password string) {
	_ = Derive(password, dummySalt)
}
