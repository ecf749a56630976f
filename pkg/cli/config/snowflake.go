package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/service/warehouse"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Snowflake holds the warehouse connection settings. Values can come from
// flags, environment variables or a YAML file; explicitly set flags win
// over the file.
type Snowflake struct {
	ConfigFile string
	Account    string
	User       string
	Password   string
	Role       string
	Warehouse  string
	Database   string
	Schema     string
}

type snowflakeFile struct {
	Account   string `yaml:"account"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	Warehouse string `yaml:"warehouse"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
}

// Flags returns CLI flags for Snowflake configuration
func (s *Snowflake) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "snowflake-config",
			Usage:       "YAML file with Snowflake connection settings",
			Category:    "Snowflake",
			Sources:     cli.EnvVars("USAGEBOARD_SNOWFLAKE_CONFIG"),
			Destination: &s.ConfigFile,
		},
		&cli.StringFlag{
			Name:        "snowflake-account",
			Usage:       "Snowflake account identifier",
			Category:    "Snowflake",
			Sources:     cli.EnvVars("USAGEBOARD_SNOWFLAKE_ACCOUNT"),
			Destination: &s.Account,
		},
		&cli.StringFlag{
			Name:        "snowflake-user",
			Usage:       "Snowflake user name",
			Category:    "Snowflake",
			Sources:     cli.EnvVars("USAGEBOARD_SNOWFLAKE_USER"),
			Destination: &s.User,
		},
		&cli.StringFlag{
			Name:        "snowflake-password",
			Usage:       "Snowflake password",
			Category:    "Snowflake",
			Sources:     cli.EnvVars("USAGEBOARD_SNOWFLAKE_PASSWORD"),
			Destination: &s.Password,
		},
		&cli.StringFlag{
			Name:        "snowflake-role",
			Usage:       "Role with access to the ACCOUNT_USAGE schema",
			Category:    "Snowflake",
			Sources:     cli.EnvVars("USAGEBOARD_SNOWFLAKE_ROLE"),
			Destination: &s.Role,
		},
		&cli.StringFlag{
			Name:        "snowflake-warehouse",
			Usage:       "Virtual warehouse that runs the dashboard queries",
			Category:    "Snowflake",
			Sources:     cli.EnvVars("USAGEBOARD_SNOWFLAKE_WAREHOUSE"),
			Destination: &s.Warehouse,
		},
		&cli.StringFlag{
			Name:        "snowflake-database",
			Usage:       "Database of the usage views",
			Category:    "Snowflake",
			Value:       "SNOWFLAKE",
			Sources:     cli.EnvVars("USAGEBOARD_SNOWFLAKE_DATABASE"),
			Destination: &s.Database,
		},
		&cli.StringFlag{
			Name:        "snowflake-schema",
			Usage:       "Schema of the usage views",
			Category:    "Snowflake",
			Value:       "ACCOUNT_USAGE",
			Sources:     cli.EnvVars("USAGEBOARD_SNOWFLAKE_SCHEMA"),
			Destination: &s.Schema,
		},
	}
}

// Resolve merges the YAML file under explicitly set flags and returns the
// warehouse connection config
func (s *Snowflake) Resolve(c *cli.Command) (warehouse.Config, error) {
	cfg := warehouse.Config{
		Account:   s.Account,
		User:      s.User,
		Password:  s.Password,
		Role:      s.Role,
		Warehouse: s.Warehouse,
		Database:  s.Database,
		Schema:    s.Schema,
	}

	if s.ConfigFile == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(s.ConfigFile)
	if err != nil {
		return cfg, goerr.Wrap(err, "failed to read snowflake config", goerr.V("path", s.ConfigFile))
	}

	var file snowflakeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, goerr.Wrap(err, "failed to parse snowflake config", goerr.V("path", s.ConfigFile))
	}

	overlay := func(flag string, dst *string, v string) {
		if v != "" && (c == nil || !c.IsSet(flag)) {
			*dst = v
		}
	}
	overlay("snowflake-account", &cfg.Account, file.Account)
	overlay("snowflake-user", &cfg.User, file.User)
	overlay("snowflake-password", &cfg.Password, file.Password)
	overlay("snowflake-role", &cfg.Role, file.Role)
	overlay("snowflake-warehouse", &cfg.Warehouse, file.Warehouse)
	overlay("snowflake-database", &cfg.Database, file.Database)
	overlay("snowflake-schema", &cfg.Schema, file.Schema)

	return cfg, nil
}

// Configure opens the Snowflake connection pool
func (s *Snowflake) Configure(ctx context.Context, c *cli.Command) (*warehouse.Snowflake, error) {
	cfg, err := s.Resolve(c)
	if err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Info("Connecting to Snowflake",
		"account", cfg.Account,
		"user", cfg.User,
		"warehouse", cfg.Warehouse,
	)

	wh, err := warehouse.NewSnowflake(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init snowflake", goerr.V("account", cfg.Account))
	}
	return wh, nil
}

// LogValue returns structured log value. The password is never logged.
func (s Snowflake) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config_file", s.ConfigFile),
		slog.String("account", s.Account),
		slog.String("user", s.User),
		slog.Bool("password_set", s.Password != ""),
		slog.String("role", s.Role),
		slog.String("warehouse", s.Warehouse),
		slog.String("database", s.Database),
		slog.String("schema", s.Schema),
	)
}
