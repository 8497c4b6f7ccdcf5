package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (p Postgres) ConnStr() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s", p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode)
}

func (p Postgres) ReplicationConnStr() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s replication=database", p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode)
}

type Nats struct {
	Host           string `mapstructure:"host"`
	Port           string `mapstructure:"port"`
	Stream         string `mapstructure:"stream"`
	GeotagSubject  string `mapstructure:"geotagSubject"`
	PrelistSubject string `mapstructure:"prelistSubject"`
}

func (n Nats) ConnStr() string {
	return fmt.Sprintf("nats://%s:%s", n.Host, n.Port)
}

func (n Nats) Subjects() []string {
	return []string{n.GeotagSubject, n.PrelistSubject}
}

type Replication struct {
	Name string `mapstructure:"name"`
	Slot string `mapstructure:"slot"`
}

type Ollama struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	ChatModel string `mapstructure:"chatModel"`
}

func (o *Ollama) Address() string {
	return fmt.Sprintf("http://%s:%s", o.Host, o.Port)
}

type Nominatim struct {
	BaseURL   string        `mapstructure:"baseUrl"`
	UserAgent string        `mapstructure:"userAgent"`
	Language  string        `mapstructure:"language"`
	Zoom      int           `mapstructure:"zoom"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Geocode holds the cache tunables. Precision is the number of decimal
// places kept when deriving a cache key from a coordinate pair.
type Geocode struct {
	Capacity   int           `mapstructure:"capacity"`
	Precision  int           `mapstructure:"precision"`
	SuccessTTL time.Duration `mapstructure:"successTtl"`
	FailureTTL time.Duration `mapstructure:"failureTtl"`
}

type Describe struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	Temperature   float64       `mapstructure:"temperature"`
	TopP          float64       `mapstructure:"topP"`
	RepeatPenalty float64       `mapstructure:"repeatPenalty"`
}

type Server struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ChatLog struct {
	Path string `mapstructure:"path"`
}

type Vocab struct {
	Workers   int           `mapstructure:"workers"`
	QueueSize int           `mapstructure:"queueSize"`
	Debounce  time.Duration `mapstructure:"debounce"`
}

type Config struct {
	Postgres    Postgres    `mapstructure:"postgres"`
	Nats        Nats        `mapstructure:"nats"`
	Replication Replication `mapstructure:"replication"`
	Ollama      Ollama      `mapstructure:"ollama"`
	Nominatim   Nominatim   `mapstructure:"nominatim"`
	Geocode     Geocode     `mapstructure:"geocode"`
	Describe    Describe    `mapstructure:"describe"`
	Server      Server      `mapstructure:"server"`
	ChatLog     ChatLog     `mapstructure:"chatlog"`
	Vocab       Vocab       `mapstructure:"vocab"`
}

func LoadConfig() *Config {
	viper.SetConfigFile("./config/config.yaml")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	return &config
}
