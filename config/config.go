package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Domenick1991/flightpath/internal/geo"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	FlightPath FlightPathConfig `yaml:"flight_path"`
	Render     RenderConfig     `yaml:"render"`
	Worker     WorkerConfig     `yaml:"worker"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	Migrate  bool   `yaml:"migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers           []string `yaml:"brokers"`
	SimulationTopic   string   `yaml:"simulation_topic"`
	PositionsTopic    string   `yaml:"positions_topic"`
	GroupID           string   `yaml:"group_id"`
	PositionsGroupID  string   `yaml:"positions_group_id"`
	PublishMaxRetries int      `yaml:"publish_max_retries"`
}

type FlightPathConfig struct {
	Segments         int     `yaml:"segments"`
	CurveDivisor     float64 `yaml:"curve_divisor"`
	CurveScale       float64 `yaml:"curve_scale"`
	CacheTTLSeconds  int     `yaml:"cache_ttl_seconds"`
	AnimationSeconds float64 `yaml:"animation_seconds"`
}

func (f FlightPathConfig) CurveParams() geo.CurveParams {
	return geo.CurveParams{Divisor: f.CurveDivisor, Scale: f.CurveScale}
}

type RenderConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	TileProvider string `yaml:"tile_provider"`
	OutputDir    string `yaml:"output_dir"`
}

type WorkerConfig struct {
	MaxConcurrentFlights int `yaml:"max_concurrent_flights"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Kafka.SimulationTopic == "" {
		c.Kafka.SimulationTopic = "simulation_requests"
	}
	if c.Kafka.PositionsTopic == "" {
		c.Kafka.PositionsTopic = "flight_positions"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "flightpath-worker"
	}
	if c.Kafka.PositionsGroupID == "" {
		c.Kafka.PositionsGroupID = "flightpath-tracker"
	}
	if c.Kafka.PublishMaxRetries == 0 {
		c.Kafka.PublishMaxRetries = 3
	}
	if c.FlightPath.Segments == 0 {
		c.FlightPath.Segments = geo.DefaultSegments
	}
	if c.FlightPath.CurveDivisor == 0 {
		c.FlightPath.CurveDivisor = geo.DefaultCurveParams.Divisor
	}
	if c.FlightPath.CurveScale == 0 {
		c.FlightPath.CurveScale = geo.DefaultCurveParams.Scale
	}
	if c.FlightPath.CacheTTLSeconds == 0 {
		c.FlightPath.CacheTTLSeconds = 600
	}
	if c.FlightPath.AnimationSeconds == 0 {
		c.FlightPath.AnimationSeconds = 15
	}
	if c.Render.Width == 0 {
		c.Render.Width = 800
	}
	if c.Render.Height == 0 {
		c.Render.Height = 600
	}
	if c.Render.OutputDir == "" {
		c.Render.OutputDir = os.TempDir()
	}
	if c.Worker.MaxConcurrentFlights == 0 {
		c.Worker.MaxConcurrentFlights = 4
	}
}

func (c *Config) Validate() error {
	if c.FlightPath.Segments < 1 {
		return fmt.Errorf("flight_path.segments: %w", geo.ErrInvalidSegments)
	}
	if err := c.FlightPath.CurveParams().Validate(); err != nil {
		return fmt.Errorf("flight_path: %w", err)
	}
	if c.FlightPath.AnimationSeconds < 0 {
		return errors.New("flight_path.animation_seconds must not be negative")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.New("render size must be positive")
	}
	return nil
}
