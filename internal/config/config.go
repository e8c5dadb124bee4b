package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Store  Store  `envPrefix:"STORE_"`
	Notify Notify `envPrefix:"NOTIFY_"`

	// DuplicateWindow is the lookback for the cash-on-delivery
	// duplicate-order guard.
	DuplicateWindow time.Duration `env:"DUPLICATE_ORDER_WINDOW" envDefault:"10m"`
}

type Store struct {
	// Backend selects the repository: memory, file, sqlite or mongo.
	Backend       string `env:"BACKEND" envDefault:"memory"`
	FilePath      string `env:"FILE_PATH" envDefault:"data/orders.json"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/orders.db"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"storefront"`
}

type Notify struct {
	EmailFrom  string `env:"EMAIL_FROM" envDefault:"orders@storefront.local"`
	WebhookURL string `env:"WEBHOOK_URL"`
	AMQPURL    string `env:"AMQP_URL"`
	AMQPQueue  string `env:"AMQP_QUEUE" envDefault:"order-notifications"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
