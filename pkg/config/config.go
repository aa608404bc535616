package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa a configuração da aplicação (lida via Viper de env e, opcionalmente, de arquivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Escolar EscolarConfig
}

// EscolarConfig credenciais e endereço do sistema escolar legado.
// AccountCode e Token são obrigatórios; a ausência é erro de configuração na inicialização.
type EscolarConfig struct {
	AccountCode  int    // nCodigoCliente
	Token        string // sToken
	EndpointHost string // host HTTPS do web service, sem esquema
	Timeout      time.Duration
}

// Validate verifica as credenciais antes de qualquer chamada remota.
func (c EscolarConfig) Validate() error {
	var missing []string
	if c.AccountCode <= 0 {
		missing = append(missing, "ESCOLAR_ACCOUNT_CODE")
	}
	if strings.TrimSpace(c.Token) == "" {
		missing = append(missing, "ESCOLAR_TOKEN")
	}
	if strings.TrimSpace(c.EndpointHost) == "" {
		missing = append(missing, "ESCOLAR_ENDPOINT_HOST")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config escolar: faltam %s", strings.Join(missing, ", "))
	}
	return nil
}

// AppConfig configuração geral da aplicação.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuração do PostgreSQL.
// Se DatabaseURL não estiver vazio, é usado como connection string completa.
type DBConfig struct {
	DatabaseURL   string
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	RunMigrations bool
}

// ConnectionString devolve DATABASE_URL se definido, senão o DSN montado.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN connection string com URL encoding para caracteres especiais na senha.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig verificação dos tokens emitidos pelo serviço de autenticação.
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configuração do servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr endereço de escuta (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lê a configuração de variáveis de ambiente (e opcionalmente de .env / config.env).
// As env vars têm prioridade.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignora se não existir

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "pre-matricula"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:   getString(v, "DATABASE_URL", ""),
			Host:          getString(v, "DB_HOST", "localhost"),
			Port:          getInt(v, "DB_PORT", 5432),
			User:          getString(v, "DB_USER", "postgres"),
			Password:      getString(v, "DB_PASSWORD", ""),
			DBName:        getString(v, "DB_NAME", "pre_matricula"),
			SSLMode:       getString(v, "DB_SSLMODE", "disable"),
			RunMigrations: getBool(v, "DB_RUN_MIGRATIONS", true),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", ""),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Escolar: EscolarConfig{
			AccountCode:  getInt(v, "ESCOLAR_ACCOUNT_CODE", 0),
			Token:        getString(v, "ESCOLAR_TOKEN", ""),
			EndpointHost: getString(v, "ESCOLAR_ENDPOINT_HOST", ""),
			Timeout:      time.Duration(getInt(v, "ESCOLAR_TIMEOUT_SECONDS", 60)) * time.Second,
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET não definido")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
