package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

const (
	msgMissingToken = "требуется авторизация"
	msgInvalidToken = "недействительный токен"
	msgWrongScope   = "токен не подходит для этого запроса"
)

// ErrMissingToken заголовок Authorization отсутствует
var ErrMissingToken = errors.New("middleware: missing bearer token")

type principalKey struct{}

type clientPhoneKey struct{}

// Claims поля токена, выданного сервисом идентификации
type Claims struct {
	ID    int64  `json:"id"`
	Role  string `json:"role"`
	Scope string `json:"scope,omitempty"`
	Phone string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth проверка HS256 токенов
type Auth struct {
	secret      []byte
	clientScope string
	logger      Logger
}

// NewAuth создает middleware авторизации
func NewAuth(secret, clientScope string, logger Logger) *Auth {
	return &Auth{secret: []byte(secret), clientScope: clientScope, logger: logger}
}

// Staff пропускает запросы с токеном сотрудника или администратора и кладет пользователя в контекст
func (a *Auth) Staff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parse(r)
		if err != nil {
			a.reject(w, r, err)
			return
		}

		role := domain.Role(claims.Role)
		if claims.ID <= 0 || !isStaffRole(role) || claims.Scope == a.clientScope {
			a.logger.Warn("%s %s - Token is not a staff token: id=%d role=%s", r.Method, r.URL.Path, claims.ID, claims.Role)
			handlers.RespondForbidden(w, msgWrongScope)
			return
		}

		ctx := WithPrincipal(r.Context(), domain.Principal{ID: claims.ID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Client пропускает только клиентские токены с телефоном
func (a *Auth) Client(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parse(r)
		if err != nil {
			a.reject(w, r, err)
			return
		}

		phone := strings.TrimSpace(claims.Phone)
		if claims.Scope != a.clientScope || phone == "" {
			a.logger.Warn("%s %s - Token has no client scope", r.Method, r.URL.Path)
			handlers.RespondForbidden(w, msgWrongScope)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClientPhone(r.Context(), phone)))
	})
}

func (a *Auth) parse(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (a *Auth) reject(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrMissingToken) {
		a.logger.Warn("%s %s - Missing token", r.Method, r.URL.Path)
		handlers.RespondUnauthorized(w, msgMissingToken)
		return
	}
	a.logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
	handlers.RespondUnauthorized(w, msgInvalidToken)
}

func isStaffRole(role domain.Role) bool {
	switch role {
	case domain.RoleSuperAdmin, domain.RoleSalonAdmin, domain.RoleMaster:
		return true
	}
	return false
}

// WithPrincipal кладет пользователя в контекст
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal получает пользователя из контекста (через middleware Staff)
func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// WithClientPhone кладет телефон клиента в контекст
func WithClientPhone(ctx context.Context, phone string) context.Context {
	return context.WithValue(ctx, clientPhoneKey{}, phone)
}

// GetClientPhone получает телефон клиента из контекста (через middleware Client)
func GetClientPhone(ctx context.Context) (string, bool) {
	phone, ok := ctx.Value(clientPhoneKey{}).(string)
	return phone, ok && phone != ""
}
