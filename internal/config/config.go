package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Cron   CronConfig   `mapstructure:"cron"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Rules  RulesConfig  `mapstructure:"rules"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr      string `mapstructure:"http_addr"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CacheEviction     string `mapstructure:"cache_eviction"`
	SnapshotRetention string `mapstructure:"snapshot_retention"`
}

type CacheConfig struct {
	// Reports not re-requested within MaxIdle are evicted by the cron job.
	MaxIdle       time.Duration `mapstructure:"max_idle"`
	SnapshotKeep  time.Duration `mapstructure:"snapshot_keep"`
	MaxMemEntries int           `mapstructure:"max_mem_entries"`
}

// RulesConfig carries every numeric business-rule threshold used by the
// curve classifier, the segmentation predicates and the planning layer.
// The rule set evolves between deployments, so nothing here is a literal
// in the code that applies it.
type RulesConfig struct {
	Curve   CurveConfig   `mapstructure:"curve"`
	Segment SegmentConfig `mapstructure:"segment"`
	Risk    RiskConfig    `mapstructure:"risk"`
	Score   ScoreConfig   `mapstructure:"score"`
}

type CurveConfig struct {
	// Cumulative-revenue share cutoffs inside one window.
	AThreshold float64 `mapstructure:"a_threshold"`
	BThreshold float64 `mapstructure:"b_threshold"`
}

type SegmentConfig struct {
	// Dead-stock combo candidates: historical average ticket below this.
	DeadStockTicketCeiling float64 `mapstructure:"dead_stock_ticket_ceiling"`

	RevitalizeBandMin    int `mapstructure:"revitalize_band_min"`
	RevitalizeBandMax    int `mapstructure:"revitalize_band_max"`
	RevitalizeRecentMax  int `mapstructure:"revitalize_recent_max"`
	RevitalizeStrongMin  int `mapstructure:"revitalize_strong_min"`
	RevitalizeStrongMax  int `mapstructure:"revitalize_strong_max"`
	OpportunityBandMin   int `mapstructure:"opportunity_band_min"`
	OpportunityBandMax   int `mapstructure:"opportunity_band_max"`
	CRecurrentMinWindows int `mapstructure:"c_recurrent_min_windows"`
	StrongDropRankSpread int `mapstructure:"strong_drop_rank_spread"`
}

type RiskConfig struct {
	// TACOS above the ceiling is flagged as high ad cost.
	TacosCeiling float64 `mapstructure:"tacos_ceiling"`
	// Post-ad margin at or above the floor is a good-margin opportunity.
	MarginFloor float64 `mapstructure:"margin_floor"`
	// Curve-A revenue concentration interpretation bands (0-30 window).
	ConcentrationHigh     float64 `mapstructure:"concentration_high"`
	ConcentrationModerate float64 `mapstructure:"concentration_moderate"`
}

type ScoreConfig struct {
	WeightLoss    float64 `mapstructure:"weight_loss"`
	WeightProfit  float64 `mapstructure:"weight_profit"`
	WeightRevenue float64 `mapstructure:"weight_revenue"`

	BonusLeak      float64 `mapstructure:"bonus_leak"`
	BonusRising    float64 `mapstructure:"bonus_rising"`
	BonusAnchor    float64 `mapstructure:"bonus_anchor"`
	PenaltyCleanup float64 `mapstructure:"penalty_cleanup"`

	BonusGoodMargin float64 `mapstructure:"bonus_good_margin"`
	PenaltyHighRisk float64 `mapstructure:"penalty_high_risk"`

	UrgencyNow   float64 `mapstructure:"urgency_now"`
	UrgencyWeek  float64 `mapstructure:"urgency_week"`
	UrgencyMonth float64 `mapstructure:"urgency_month"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ABC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	setDefaults(v)

	if !envOnly && path != "" {
		// A missing config file is fine; env vars plus defaults carry.
		_ = v.ReadInConfig()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultRules returns the rule thresholds with production defaults, for
// callers (and tests) that do not go through a config file.
func DefaultRules() RulesConfig {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg.Rules
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.max_upload_size", 32<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.cache_eviction", "@every 1h")
	v.SetDefault("cron.snapshot_retention", "@every 24h")
	v.SetDefault("cache.max_idle", "72h")
	v.SetDefault("cache.snapshot_keep", "2160h")
	v.SetDefault("cache.max_mem_entries", 16)

	v.SetDefault("rules.curve.a_threshold", 0.80)
	v.SetDefault("rules.curve.b_threshold", 0.95)

	v.SetDefault("rules.segment.dead_stock_ticket_ceiling", 35.0)
	v.SetDefault("rules.segment.revitalize_band_min", 30)
	v.SetDefault("rules.segment.revitalize_band_max", 40)
	v.SetDefault("rules.segment.revitalize_recent_max", 10)
	v.SetDefault("rules.segment.revitalize_strong_min", 1)
	v.SetDefault("rules.segment.revitalize_strong_max", 25)
	v.SetDefault("rules.segment.opportunity_band_min", 50)
	v.SetDefault("rules.segment.opportunity_band_max", 60)
	v.SetDefault("rules.segment.c_recurrent_min_windows", 3)
	v.SetDefault("rules.segment.strong_drop_rank_spread", 2)

	v.SetDefault("rules.risk.tacos_ceiling", 0.20)
	v.SetDefault("rules.risk.margin_floor", 0.10)
	v.SetDefault("rules.risk.concentration_high", 0.65)
	v.SetDefault("rules.risk.concentration_moderate", 0.50)

	v.SetDefault("rules.score.weight_loss", 0.40)
	v.SetDefault("rules.score.weight_profit", 0.30)
	v.SetDefault("rules.score.weight_revenue", 0.20)
	v.SetDefault("rules.score.bonus_leak", 0.20)
	v.SetDefault("rules.score.bonus_rising", 0.10)
	v.SetDefault("rules.score.bonus_anchor", 0.05)
	v.SetDefault("rules.score.penalty_cleanup", 0.05)
	v.SetDefault("rules.score.bonus_good_margin", 0.10)
	v.SetDefault("rules.score.penalty_high_risk", 0.20)
	v.SetDefault("rules.score.urgency_now", 0.75)
	v.SetDefault("rules.score.urgency_week", 0.50)
	v.SetDefault("rules.score.urgency_month", 0.30)
}
