package auth

// Claims es la identidad del clínico extraída del token.
type Claims struct {
	UserID   string
	Email    string
	TenantID string // hospital / institución
}
