package globals

type contextKey string

const (
	UserIDKey  contextKey = "userId"
	EmailKey   contextKey = "email"
	RoleKey    contextKey = "role"
	ParamIDKey contextKey = "params"
)
