package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug        bool
		TestMode     bool
		Env          string
		AppName      string
		Build        string
		SecretKey    string
		RollbarToken string
		PageSize     int

		Server struct {
			Host                      string
			Port                      string
			JWTExpirationDelta        time.Duration
			JWTRefreshExpirationDelta time.Duration
			ShutdownTimeout           time.Duration
		}

		Storage struct {
			Backend string // memory | file | postgres
			Path    string // file backend only

			Database struct {
				Engine     string
				Name       string
				User       string
				Password   string
				Host       string
				Port       string
				DisableTLS bool
			}
		}

		Auth struct {
			Admin  CredentialConfig
			Viewer CredentialConfig
		}
	}

	// CredentialConfig is one entry of the fixed login table.
	CredentialConfig struct {
		Username string
		Password string
	}
)

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c *Config) DatabaseAddress() string {
	return c.Storage.Database.Host + ":" + c.Storage.Database.Port
}

// NewConfig loads the app configuration: defaults first, then an optional
// config/.env.<env> file, then environment variables (prefixed with ENV).
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Meshwar Roster")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "x2m(x&=d%9e+$-w0m%1^t7#ze_8+ys^_p3b!p7-wnq#ig$vw+r")
	v.SetDefault("pageSize", 50)

	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("shutdownTimeout", 5*time.Second)

	v.SetDefault("storageBackend", "file")
	v.SetDefault("storagePath", filepath.Join(Getwd(), "roster.json"))
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "roster")
	v.SetDefault("dbUser", "")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)

	v.SetDefault("adminUsername", "mazen")
	v.SetDefault("adminPassword", "farra@mazen1918")
	v.SetDefault("viewerUsername", "tariq")
	v.SetDefault("viewerPassword", "tariq@mishwar.edu")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     env == "TEST",
		Env:          env,
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		PageSize:     v.GetInt("pageSize"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Port = v.GetString("serverPort")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	conf.Server.JWTRefreshExpirationDelta = v.GetDuration("jwtRefreshExpirationDelta")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")

	conf.Storage.Backend = v.GetString("storageBackend")
	conf.Storage.Path = v.GetString("storagePath")
	conf.Storage.Database.Engine = v.GetString("dbEngine")
	conf.Storage.Database.Name = v.GetString("dbName")
	conf.Storage.Database.User = v.GetString("dbUser")
	conf.Storage.Database.Password = v.GetString("dbPassword")
	conf.Storage.Database.Host = v.GetString("dbHost")
	conf.Storage.Database.Port = v.GetString("dbPort")
	conf.Storage.Database.DisableTLS = v.GetBool("dbDisableTLS")

	conf.Auth.Admin = CredentialConfig{Username: v.GetString("adminUsername"), Password: v.GetString("adminPassword")}
	conf.Auth.Viewer = CredentialConfig{Username: v.GetString("viewerUsername"), Password: v.GetString("viewerPassword")}
	return conf
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run during tests... this breaks our code...
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			log.Fatalf("project root not found from %s", wd)
		}
		currDir = newDir
	}
}
