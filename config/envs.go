package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beka-birhanu/vinom-qmaze/solver"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the application.
const EnvPrefix = "QMAZE"

// Store backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
	StoreMongo = "mongo"
)

// Config holds the application's configuration values.
type Config struct {
	MazePath        string  // Grid source file, CSV or XLSX
	MazeName        string  // Name of the maze in shared stores, defaults to the source file name
	Store           string  // Value table backend: file, redis or mongo
	TablePath       string  // Value table file for the file backend
	DiscountFactor  float64 // Weight of a new signal in the value update
	ExplorationRate float64 // Probability of taking the best known action
	WinReward       float64 // Reward for reaching the exit
	WallBumpReward  float64 // Reward per blocked direction
	StepReward      float64 // Reward per move
	MaxSteps        int     // Step limit of a run, 0 for none
	LogEvery        int     // Steps between progress log lines
	Seed            int64   // Seed for action selection, 0 for time based
	RedisAddr       string  // Address of the Redis server
	RedisPassword   string  // Password for the Redis server
	RedisDB         int     // Redis database number
	RedisPrefix     string  // Prefix of every Redis key
	RunBoardTTL     int     // Seconds before a maze's run board expires, 0 for never
	DBHost          string  // Hostname or IP address for the database
	DBPort          int     // Port number for the database
	DBUser          string  // Username for the database
	DBPassword      string  // Password for the database
	DBName          string  // Name of the database
	HTTPAddr        string  // Address of the HTTP viewer, empty to disable it
	GinMode         string  // Mode for the Gin framework (e.g., release, debug, test)
	Debug           bool    // Debug logging
	NoColor         bool    // Plain terminal output
	Quiet           bool    // No grid drawing on the terminal
}

// Configuration keys. Environment variables are the upper-cased key with
// dashes turned into underscores and EnvPrefix in front, e.g. QMAZE_MAX_STEPS.
const (
	KeyMaze           = "maze"
	KeyMazeName       = "maze-name"
	KeyStore          = "store"
	KeyTable          = "table"
	KeyDiscount       = "discount"
	KeyExploration    = "exploration"
	KeyWinReward      = "win-reward"
	KeyWallBumpReward = "wall-bump-reward"
	KeyStepReward     = "step-reward"
	KeyMaxSteps       = "max-steps"
	KeyLogEvery       = "log-every"
	KeySeed           = "seed"
	KeyRedisAddr      = "redis-addr"
	KeyRedisPassword  = "redis-password"
	KeyRedisDB        = "redis-db"
	KeyRedisPrefix    = "redis-prefix"
	KeyRunBoardTTL    = "run-board-ttl"
	KeyDBHost         = "db-host"
	KeyDBPort         = "db-port"
	KeyDBUser         = "db-user"
	KeyDBPassword     = "db-pass"
	KeyDBName         = "db-name"
	KeyHTTPAddr       = "http-addr"
	KeyGinMode        = "gin-mode"
	KeyDebug          = "debug"
	KeyNoColor        = "no-color"
	KeyQuiet          = "quiet"
)

// LoadDotEnv loads a .env file from the working directory if there is one.
func LoadDotEnv() error {
	return godotenv.Load()
}

// SetDefaults registers the defaults and the environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyMaze, "mazeEnv.csv")
	v.SetDefault(KeyMazeName, "")
	v.SetDefault(KeyStore, StoreFile)
	v.SetDefault(KeyTable, "QValues.json")
	v.SetDefault(KeyDiscount, solver.DefaultDiscountFactor)
	v.SetDefault(KeyExploration, solver.DefaultExplorationRate)
	v.SetDefault(KeyWinReward, solver.DefaultRewards.Win)
	v.SetDefault(KeyWallBumpReward, solver.DefaultRewards.WallBump)
	v.SetDefault(KeyStepReward, solver.DefaultRewards.Step)
	v.SetDefault(KeyMaxSteps, 0)
	v.SetDefault(KeyLogEvery, solver.DefaultLogEvery)
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyRedisAddr, "localhost:6379")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyRedisPrefix, "qmaze")
	v.SetDefault(KeyRunBoardTTL, 0)
	v.SetDefault(KeyDBHost, "localhost")
	v.SetDefault(KeyDBPort, 27017)
	v.SetDefault(KeyDBUser, "")
	v.SetDefault(KeyDBPassword, "")
	v.SetDefault(KeyDBName, "qmaze")
	v.SetDefault(KeyHTTPAddr, "")
	v.SetDefault(KeyGinMode, "release")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyQuiet, false)
}

// Load reads the configuration from v and checks it.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		MazePath:        v.GetString(KeyMaze),
		MazeName:        v.GetString(KeyMazeName),
		Store:           strings.ToLower(v.GetString(KeyStore)),
		TablePath:       v.GetString(KeyTable),
		DiscountFactor:  v.GetFloat64(KeyDiscount),
		ExplorationRate: v.GetFloat64(KeyExploration),
		WinReward:       v.GetFloat64(KeyWinReward),
		WallBumpReward:  v.GetFloat64(KeyWallBumpReward),
		StepReward:      v.GetFloat64(KeyStepReward),
		MaxSteps:        v.GetInt(KeyMaxSteps),
		LogEvery:        v.GetInt(KeyLogEvery),
		Seed:            v.GetInt64(KeySeed),
		RedisAddr:       v.GetString(KeyRedisAddr),
		RedisPassword:   v.GetString(KeyRedisPassword),
		RedisDB:         v.GetInt(KeyRedisDB),
		RedisPrefix:     v.GetString(KeyRedisPrefix),
		RunBoardTTL:     v.GetInt(KeyRunBoardTTL),
		DBHost:          v.GetString(KeyDBHost),
		DBPort:          v.GetInt(KeyDBPort),
		DBUser:          v.GetString(KeyDBUser),
		DBPassword:      v.GetString(KeyDBPassword),
		DBName:          v.GetString(KeyDBName),
		HTTPAddr:        v.GetString(KeyHTTPAddr),
		GinMode:         v.GetString(KeyGinMode),
		Debug:           v.GetBool(KeyDebug),
		NoColor:         v.GetBool(KeyNoColor),
		Quiet:           v.GetBool(KeyQuiet),
	}

	if c.MazeName == "" {
		base := filepath.Base(c.MazePath)
		c.MazeName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	switch c.Store {
	case StoreFile, StoreRedis, StoreMongo:
	default:
		return c, fmt.Errorf("unknown store %q, want %s, %s or %s", c.Store, StoreFile, StoreRedis, StoreMongo)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return c, fmt.Errorf("unknown gin mode %q", c.GinMode)
	}
	if err := c.Solver().Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Solver returns the solver parameters of c.
func (c Config) Solver() solver.Config {
	return solver.Config{
		DiscountFactor:  c.DiscountFactor,
		ExplorationRate: c.ExplorationRate,
		Rewards: solver.Rewards{
			Win:      c.WinReward,
			WallBump: c.WallBumpReward,
			Step:     c.StepReward,
		},
		MaxSteps: c.MaxSteps,
		LogEvery: c.LogEvery,
		Seed:     c.Seed,
	}
}

// MongoURI builds the connection string of the database.
func (c Config) MongoURI() string {
	if c.DBUser == "" {
		return fmt.Sprintf("mongodb://%s:%v", c.DBHost, c.DBPort)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%v", c.DBUser, c.DBPassword, c.DBHost, c.DBPort)
}
