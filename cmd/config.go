package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/rocketchat"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/jobs"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration. See LoadConfig for the sources.
type Config struct {
	HTTPPort string   `yaml:"http_port"`
	LogLevel string   `yaml:"log_level"`
	DB       Postgres `yaml:"database"`
	Orders   Orders   `yaml:"orders"`

	WebBaseURL string     `yaml:"web_base_url"`
	RocketChat RocketChat `yaml:"rocketchat"`
	AMQP       AMQP       `yaml:"amqp"`
}

// Postgres holds the database connection settings.
type Postgres struct {
	Host          string        `yaml:"host"`
	Port          string        `yaml:"port"`
	User          string        `yaml:"user"`
	Password      string        `yaml:"password"`
	Name          string        `yaml:"name"`
	SslMode       string        `yaml:"sslmode"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	SeedFile      string        `yaml:"seed_file"`
}

func (p Postgres) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Name, p.SslMode,
	)
}

// Orders configures housekeeping. The batch sizes cap one lookup; a sweep
// repeats lookups until its selection is drained.
type Orders struct {
	HousekeepingCron     string        `yaml:"housekeeping_cron"`
	ClosedOrderLingering time.Duration `yaml:"closed_order_lingering"`
	StateTimeouts        StateTimeouts `yaml:"state_timeouts"`
	DeletionBatchSize    int           `yaml:"deletion_batch_size"`
	TransitionBatchSize  int           `yaml:"transition_batch_size"`
	RescheduleBatchSize  int           `yaml:"reschedule_batch_size"`
	StartupSweepDelay    time.Duration `yaml:"startup_sweep_delay"`
}

// StateTimeouts mirrors order.StateTimeouts with yaml tags.
type StateTimeouts struct {
	MaxOpenTime            time.Duration `yaml:"max_open_time"`
	MaxUntouchedTime       time.Duration `yaml:"max_untouched_time"`
	LockedBeforeReopened   time.Duration `yaml:"locked_before_reopened"`
	OrderedBeforeDelivered time.Duration `yaml:"ordered_before_delivered"`
	RevokedBeforeDeleted   time.Duration `yaml:"revoked_before_deleted"`
	DeliveryBeforeArchive  time.Duration `yaml:"delivery_before_archive"`
}

func (t StateTimeouts) Domain() order.StateTimeouts {
	return order.StateTimeouts{
		MaxOpenTime:            t.MaxOpenTime,
		MaxUntouchedTime:       t.MaxUntouchedTime,
		LockedBeforeReopened:   t.LockedBeforeReopened,
		OrderedBeforeDelivered: t.OrderedBeforeDelivered,
		DeliveryBeforeArchive:  t.DeliveryBeforeArchive,
		RevokedBeforeDeleted:   t.RevokedBeforeDeleted,
	}
}

// RocketChat configures the chat notifier.
type RocketChat struct {
	Enabled  bool   `yaml:"enabled"`
	BaseURL  string `yaml:"base_url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Channel  string `yaml:"channel"`
}

func (r RocketChat) Client() rocketchat.Config {
	return rocketchat.Config{
		Enabled:  r.Enabled,
		BaseURL:  r.BaseURL,
		User:     r.User,
		Password: r.Password,
		Channel:  r.Channel,
	}
}

// AMQP configures the change broadcaster.
type AMQP struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// DefaultConfig returns the configuration used for unset values.
func DefaultConfig() Config {
	timeouts := order.DefaultStateTimeouts()

	return Config{
		HTTPPort: "8080",
		LogLevel: "info",
		DB: Postgres{
			Host:          "localhost",
			Port:          "5432",
			User:          "postgres",
			Name:          "mealtime",
			SslMode:       "disable",
			SlowThreshold: 200 * time.Millisecond,
		},
		Orders: Orders{
			HousekeepingCron:     "0 0 3 * * *",
			ClosedOrderLingering: 12 * time.Hour,
			StateTimeouts: StateTimeouts{
				MaxOpenTime:            timeouts.MaxOpenTime,
				MaxUntouchedTime:       timeouts.MaxUntouchedTime,
				LockedBeforeReopened:   timeouts.LockedBeforeReopened,
				OrderedBeforeDelivered: timeouts.OrderedBeforeDelivered,
				RevokedBeforeDeleted:   timeouts.RevokedBeforeDeleted,
				DeliveryBeforeArchive:  timeouts.DeliveryBeforeArchive,
			},
			DeletionBatchSize:   1000,
			TransitionBatchSize: 1000,
			RescheduleBatchSize: 100,
			StartupSweepDelay:   time.Minute,
		},
		WebBaseURL: "http://localhost:8080",
		AMQP: AMQP{
			Exchange: "meal_order_changes",
		},
	}
}

// LoadConfig reads path on top of DefaultConfig and applies the environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	return config, config.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for key, target := range map[string]*string{
		"HTTP_PORT":           &c.HTTPPort,
		"LOG_LEVEL":           &c.LogLevel,
		"DB_HOST":             &c.DB.Host,
		"DB_PORT":             &c.DB.Port,
		"DB_USER":             &c.DB.User,
		"DB_PASSWORD":         &c.DB.Password,
		"DB_NAME":             &c.DB.Name,
		"DB_SSLMODE":          &c.DB.SslMode,
		"WEB_BASE_URL":        &c.WebBaseURL,
		"AMQP_URL":            &c.AMQP.URL,
		"AMQP_EXCHANGE":       &c.AMQP.Exchange,
		"ROCKETCHAT_BASE_URL": &c.RocketChat.BaseURL,
		"ROCKETCHAT_USER":     &c.RocketChat.User,
		"ROCKETCHAT_PASSWORD": &c.RocketChat.Password,
		"ROCKETCHAT_CHANNEL":  &c.RocketChat.Channel,
	} {
		if value, ok := lookup(key); ok {
			*target = value
		}
	}

	var boolErrs []error
	for key, target := range map[string]*bool{
		"AMQP_ENABLED":       &c.AMQP.Enabled,
		"ROCKETCHAT_ENABLED": &c.RocketChat.Enabled,
	} {
		value, ok := lookup(key)
		if !ok {
			continue
		}
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			boolErrs = append(boolErrs, errs.NewValueIsInvalidErrorWithCause(key, err))
			continue
		}
		*target = enabled
	}
	return errors.Join(boolErrs...)
}

func (c Config) Validate() error {
	var cronErr error
	if _, err := cron.NewParser(jobs.CronParseOptions).Parse(c.Orders.HousekeepingCron); err != nil {
		cronErr = errs.NewValueIsInvalidErrorWithCause("housekeeping_cron", err)
	}

	return errors.Join(
		cronErr,
		c.Orders.StateTimeouts.Domain().Validate(),
		positiveDuration("closed_order_lingering", c.Orders.ClosedOrderLingering),
		positiveDuration("startup_sweep_delay", c.Orders.StartupSweepDelay),
		positiveInt("deletion_batch_size", c.Orders.DeletionBatchSize),
		positiveInt("transition_batch_size", c.Orders.TransitionBatchSize),
		positiveInt("reschedule_batch_size", c.Orders.RescheduleBatchSize),
		required("http_port", c.HTTPPort),
		required("database.host", c.DB.Host),
		requiredIf(c.AMQP.Enabled, "amqp.url", c.AMQP.URL),
		requiredIf(c.RocketChat.Enabled, "rocketchat.base_url", c.RocketChat.BaseURL),
		requiredIf(c.RocketChat.Enabled, "rocketchat.channel", c.RocketChat.Channel),
	)
}

func (c Config) Housekeeping() jobs.HousekeepingSettings {
	return jobs.HousekeepingSettings{
		Schedule:     c.Orders.HousekeepingCron,
		StartupDelay: c.Orders.StartupSweepDelay,
		Timeouts:     c.Orders.StateTimeouts.Domain(),
	}
}

func positiveDuration(name string, d time.Duration) error {
	if d <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is not a positive duration", d))
	}
	return nil
}

func positiveInt(name string, n int) error {
	if n <= 0 {
		return errs.NewValueIsOutOfRangeError(name, n, 1, "unbounded")
	}
	return nil
}

func required(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func requiredIf(enabled bool, name, value string) error {
	if !enabled {
		return nil
	}
	return required(name, value)
}
