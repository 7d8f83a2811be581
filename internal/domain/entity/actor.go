package entity

// Actor identidad del llamador, tomada del token (nunca del cuerpo de la petición).
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin indica si el llamador es administrador.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanAccess regla de acceso a recursos de un usuario: el dueño o un admin.
func (a Actor) CanAccess(ownerID string) bool {
	return a.UserID != "" && (a.UserID == ownerID || a.IsAdmin())
}
