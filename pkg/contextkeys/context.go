package contextkeys

// Кастомный тип ключа, чтобы избежать коллизий в context
type contextKey string

// DBContextKey - ключ, по которому middleware кладет *gorm.DB в context запроса
const DBContextKey = contextKey("db")

// Ключи, которые auth-middleware кладет в gin.Context
const (
	UserIDKey    = "user_id"
	UserRoleKey  = "user_role"
	RequestIDKey = "request_id"
)
