package admin

import (
	"fmt"
	"io"
	"strings"

	"github.com/bienestar-institucional/backend/internal/user/domain"
)

var banner = strings.Repeat("=", 50)

// report writes the operator-facing console text.
type report struct {
	out io.Writer
}

func (r *report) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *report) found(user domain.User) {
	r.printf("%s\nUSUARIO ADMIN ENCONTRADO\n%s\n", banner, banner)
	r.printf("Username: %s\n", user.Username)
	r.printf("Email: %s\n", user.Email)
	r.printf("Nombre: %s\n", user.FullName)
	r.printf("Rol: %s\n", user.Role)
	r.printf("Cédula: %s\n", user.Cedula)
	r.printf("%s\n", banner)
}

func (r *report) passwordReset(password string) {
	r.printf("\n✓ Contraseña actualizada exitosamente!\n")
	r.printf("  Usuario: %s\n", Username)
	r.printf("  Nueva contraseña: %s\n", password)
}

func (r *report) emptyPassword() {
	r.printf("\n✗ La contraseña no puede estar vacía\n")
}

func (r *report) declined() {
	r.printf("\n✓ Información del usuario admin:\n")
	r.printf("  Usuario: %s\n", Username)
	r.printf("  Contraseña por defecto: %s\n", DefaultPassword)
	r.printf("\n  Si no puedes iniciar sesión, ejecuta este comando\n")
	r.printf("  nuevamente y elige 's' para restablecer la contraseña.\n")
}

func (r *report) notFound() {
	r.printf("%s\nUSUARIO ADMIN NO ENCONTRADO\n%s\n", banner, banner)
	r.printf("Creando usuario admin...\n")
}

func (r *report) created() {
	r.printf("✓ Usuario admin creado exitosamente!\n")
	r.printf("  Usuario: %s\n", Username)
	r.printf("  Contraseña: %s\n", DefaultPassword)
}

func (r *report) closing() {
	r.printf("\n%s\n", banner)
}
