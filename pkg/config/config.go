package config

import (
	"github.com/kelseyhightower/envconfig"
)

// App holds every environment-driven setting for the service. godotenv loads
// .env into the process in main; envconfig maps it onto this struct.
type App struct {
	// Network
	HTTPAddr    string `envconfig:"APP_HTTP_ADDR" default:":8080"`
	GinMode     string `envconfig:"GIN_MODE" default:"debug"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"marketplace"`
	ServiceHost string `envconfig:"SERVICE_HOST" default:"localhost"`
	ServicePort int    `envconfig:"SERVICE_PORT" default:"8080"`

	// Public base URL used when server-side code builds absolute links.
	SiteURL string `envconfig:"SITE_URL" default:"http://localhost:8080"`

	// Shared secret for the server-to-server routes (X-Service-Role header).
	ServiceRoleKey string `envconfig:"SERVICE_ROLE_KEY" required:"true"`

	// DB
	PostgresDSN string `envconfig:"POSTGRES_DSN" required:"true"`

	// Identity provider. When the JWT secret is set, access tokens are
	// verified locally; otherwise they are resolved via IDENTITY_URL.
	IdentityURL       string `envconfig:"IDENTITY_URL"`
	IdentityJWTSecret string `envconfig:"IDENTITY_JWT_SECRET"`

	// Optional infrastructure. Empty value disables the integration.
	KafkaHost      string `envconfig:"KAFKA_HOST"`
	ConsulHTTPAddr string `envconfig:"CONSUL_HTTP_ADDR"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
