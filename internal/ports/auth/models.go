package auth

// Claims representa la información extraída del token de sesión.
type Claims struct {
	UserID string
	Email  string
}

// Identity es el usuario devuelto por un proveedor externo (Google).
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
}
