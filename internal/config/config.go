package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Listen         string   `json:"listen"`
		MapFile        string   `json:"map_file"`
		DBPath         string   `json:"db_path"`
		Workers        int      `json:"workers"`
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"server"`

	Dispatch struct {
		Grid       string  `json:"grid"`       // "h3" or "hex"
		Resolution int     `json:"resolution"` // h3 resolution
		HexSize    float64 `json:"hex_size"`   // hex radius in degrees
		MaxRadius  int     `json:"max_radius"`
		Fallback   string  `json:"fallback"` // "none" or "all"
	} `json:"dispatch"`

	Simulation struct {
		ServerURL   string `json:"server_url"`
		NumDrivers  int    `json:"num_drivers"`
		NumRequests int    `json:"num_requests"`
		Concurrency int    `json:"concurrency"`
	} `json:"simulation"`
}

var (
	Global Config
	once   sync.Once
)

// Default returns the settings used for anything a config file leaves out.
func Default() Config {
	var c Config
	c.Server.Listen = ":8080"
	c.Server.MapFile = "map.json"
	c.Server.DBPath = "ridepool.db"
	c.Server.AllowedOrigins = []string{"*"}
	c.Dispatch.Grid = "h3"
	c.Dispatch.Resolution = 9
	c.Dispatch.HexSize = 0.005
	c.Dispatch.MaxRadius = 5
	c.Dispatch.Fallback = "none"
	c.Simulation.ServerURL = "http://localhost:8080"
	c.Simulation.NumDrivers = 20
	c.Simulation.NumRequests = 200
	c.Simulation.Concurrency = 8
	return c
}

// Parse overlays a JSON document on the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Dispatch.Grid {
	case "h3":
		if c.Dispatch.Resolution < 0 || c.Dispatch.Resolution > 15 {
			errs = append(errs, fmt.Errorf("dispatch.resolution must be 0-15, got %d", c.Dispatch.Resolution))
		}
	case "hex":
		if c.Dispatch.HexSize <= 0 {
			errs = append(errs, fmt.Errorf("dispatch.hex_size must be positive, got %g", c.Dispatch.HexSize))
		}
	default:
		errs = append(errs, fmt.Errorf("dispatch.grid must be h3 or hex, got %q", c.Dispatch.Grid))
	}
	if c.Dispatch.MaxRadius < 0 {
		errs = append(errs, fmt.Errorf("dispatch.max_radius must not be negative, got %d", c.Dispatch.MaxRadius))
	}
	switch strings.ToLower(c.Dispatch.Fallback) {
	case "", "none", "all":
	default:
		errs = append(errs, fmt.Errorf("dispatch.fallback must be none or all, got %q", c.Dispatch.Fallback))
	}
	if c.Server.Workers < 0 {
		errs = append(errs, fmt.Errorf("server.workers must not be negative, got %d", c.Server.Workers))
	}
	return errors.Join(errs...)
}

// Load reads .env, then the config file, then RIDEPOOL_* overrides into
// Global. Only the first call does any work. A missing config file is not
// an error; the defaults apply.
func Load(filename string) error {
	var err error
	once.Do(func() {
		LoadEnv()

		Global = Default()
		data, e := os.ReadFile(filename)
		switch {
		case e == nil:
			if Global, err = Parse(data); err != nil {
				return
			}
		case errors.Is(e, os.ErrNotExist):
			log.Printf("config: %s not found, using defaults", filename)
		default:
			err = e
			return
		}

		applyEnv(&Global)
		err = Global.Validate()
	})
	return err
}

// LoadEnv loads a .env file from the working directory if there is one.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}
}

func applyEnv(c *Config) {
	c.Server.Listen = getEnv("RIDEPOOL_LISTEN", c.Server.Listen)
	c.Server.MapFile = getEnv("RIDEPOOL_MAP_FILE", c.Server.MapFile)
	c.Server.DBPath = getEnv("RIDEPOOL_DB", c.Server.DBPath)
	c.Server.Workers = getEnvInt("RIDEPOOL_WORKERS", c.Server.Workers)
	if origins := getEnv("RIDEPOOL_ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	c.Dispatch.Grid = getEnv("RIDEPOOL_GRID", c.Dispatch.Grid)
	c.Dispatch.Resolution = getEnvInt("RIDEPOOL_RESOLUTION", c.Dispatch.Resolution)
	c.Dispatch.MaxRadius = getEnvInt("RIDEPOOL_MAX_RADIUS", c.Dispatch.MaxRadius)
	c.Dispatch.Fallback = getEnv("RIDEPOOL_FALLBACK", c.Dispatch.Fallback)
	c.Simulation.ServerURL = getEnv("RIDEPOOL_SERVER_URL", c.Simulation.ServerURL)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func TimeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	log.Printf("%s took %s", name, elapsed)
}
