package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone        = "UTC"
	configPathEnv          = "NEWSROUNDUP_CONFIG"
	oracleAPIKeyEnv        = "ORACLE_API_KEY"
	oracleModelEnv         = "ORACLE_MODEL"
	submissionsTokenEnv    = "SUBMISSIONS_API_TOKEN"
	mailerAPIKeyEnv        = "MAILER_API_KEY"
	mailerListIDEnv        = "MAILER_LIST_ID"
	defaultBatchSize       = 10
	defaultMaxPriority     = 6
	defaultMaxPerSection   = 20
	defaultSubmissionsDays = 7
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Oracle      OracleConfig      `yaml:"oracle"`
	Submissions SubmissionsConfig `yaml:"submissions"`
	Mailer      MailerConfig      `yaml:"mailer"`
	Digest      DigestConfig      `yaml:"digest"`
	Feeds       []FeedConfig      `yaml:"feeds"`
}

// LoggingConfig controls the console logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when the roundup pipeline should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// OracleConfig defines how to contact the classification/feedback oracle
// (any OpenAI-compatible chat-completions API).
type OracleConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	Instructions string `yaml:"instructions"`
}

// SubmissionsConfig wires the reader-submission service.
type SubmissionsConfig struct {
	BaseURL  string `yaml:"baseUrl"`
	APIToken string `yaml:"apiToken"`
	DaysBack int    `yaml:"daysBack"`
}

// MailerConfig holds campaign-platform settings. Only draft creation is ever
// performed; sending stays manual.
type MailerConfig struct {
	BaseURL     string `yaml:"baseUrl"`
	APIKey      string `yaml:"apiKey"`
	ListID      string `yaml:"listId"`
	FromName    string `yaml:"fromName"`
	ReplyTo     string `yaml:"replyTo"`
	PreviewText string `yaml:"previewText"`
}

// SectionConfig declares one internal section label.
type SectionConfig struct {
	Name        string `yaml:"name"`
	Display     string `yaml:"display"`
	Description string `yaml:"description"`
}

// KeywordGroupConfig maps a keyword list to a target section for the
// priority-overflow second-chance categorizer. Order in the slice is the
// match priority.
type KeywordGroupConfig struct {
	Section  string   `yaml:"section"`
	Keywords []string `yaml:"keywords"`
}

// DigestConfig groups everything that shapes section assignment.
type DigestConfig struct {
	Sections             []SectionConfig      `yaml:"sections"`
	PrioritySection      string               `yaml:"prioritySection"`
	CatchAllSection      string               `yaml:"catchAllSection"`
	MaxPriorityStories   int                  `yaml:"maxPriorityStories"`
	MaxPerSection        int                  `yaml:"maxPerSection"`
	BatchSize            int                  `yaml:"batchSize"`
	ExclusionKeywords    []string             `yaml:"exclusionKeywords"`
	OverflowGroups       []KeywordGroupConfig `yaml:"overflowGroups"`
	SubmissionSections   map[string]string    `yaml:"submissionSections"`
	SkipHeadlinePatterns []string             `yaml:"skipHeadlinePatterns"`
}

// EndpointConfig holds one concrete URL a feed scanner crawls.
type EndpointConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FeedConfig describes a single source site with its scanner strategy.
type FeedConfig struct {
	Name      string            `yaml:"name"`
	Scanner   string            `yaml:"scanner"`
	Endpoints []EndpointConfig  `yaml:"endpoints"`
	Options   map[string]string `yaml:"options"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	cfg.fillDigestDefaults()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(oracleAPIKeyEnv); v != "" {
		c.Oracle.APIKey = v
	}

	if v := os.Getenv(oracleModelEnv); v != "" {
		c.Oracle.Model = v
	}

	if v := os.Getenv(submissionsTokenEnv); v != "" {
		c.Submissions.APIToken = v
	}

	if v := os.Getenv(mailerAPIKeyEnv); v != "" {
		c.Mailer.APIKey = v
	}

	if v := os.Getenv(mailerListIDEnv); v != "" {
		c.Mailer.ListID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func (c *Config) fillDigestDefaults() {
	def := defaultConfig().Digest
	if len(c.Digest.Sections) == 0 {
		c.Digest.Sections = def.Sections
	}
	if c.Digest.PrioritySection == "" {
		c.Digest.PrioritySection = def.PrioritySection
	}
	if c.Digest.CatchAllSection == "" {
		c.Digest.CatchAllSection = def.CatchAllSection
	}
	if c.Digest.MaxPriorityStories <= 0 {
		c.Digest.MaxPriorityStories = def.MaxPriorityStories
	}
	if c.Digest.MaxPerSection <= 0 {
		c.Digest.MaxPerSection = def.MaxPerSection
	}
	if c.Digest.BatchSize <= 0 {
		c.Digest.BatchSize = def.BatchSize
	}
	if len(c.Digest.ExclusionKeywords) == 0 {
		c.Digest.ExclusionKeywords = def.ExclusionKeywords
	}
	if len(c.Digest.OverflowGroups) == 0 {
		c.Digest.OverflowGroups = def.OverflowGroups
	}
	if len(c.Digest.SubmissionSections) == 0 {
		c.Digest.SubmissionSections = def.SubmissionSections
	}
	if len(c.Digest.SkipHeadlinePatterns) == 0 {
		c.Digest.SkipHeadlinePatterns = def.SkipHeadlinePatterns
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Oracle.Endpoint != "" {
		base.Oracle.Endpoint = override.Oracle.Endpoint
	}
	if override.Oracle.Model != "" {
		base.Oracle.Model = override.Oracle.Model
	}
	if override.Oracle.APIKey != "" {
		base.Oracle.APIKey = override.Oracle.APIKey
	}
	if override.Oracle.Instructions != "" {
		base.Oracle.Instructions = override.Oracle.Instructions
	}

	if override.Submissions.BaseURL != "" {
		base.Submissions.BaseURL = override.Submissions.BaseURL
	}
	if override.Submissions.APIToken != "" {
		base.Submissions.APIToken = override.Submissions.APIToken
	}
	if override.Submissions.DaysBack > 0 {
		base.Submissions.DaysBack = override.Submissions.DaysBack
	}

	if override.Mailer.BaseURL != "" {
		base.Mailer.BaseURL = override.Mailer.BaseURL
	}
	if override.Mailer.APIKey != "" {
		base.Mailer.APIKey = override.Mailer.APIKey
	}
	if override.Mailer.ListID != "" {
		base.Mailer.ListID = override.Mailer.ListID
	}
	if override.Mailer.FromName != "" {
		base.Mailer.FromName = override.Mailer.FromName
	}
	if override.Mailer.ReplyTo != "" {
		base.Mailer.ReplyTo = override.Mailer.ReplyTo
	}
	if override.Mailer.PreviewText != "" {
		base.Mailer.PreviewText = override.Mailer.PreviewText
	}

	if len(override.Digest.Sections) > 0 {
		base.Digest.Sections = override.Digest.Sections
	}
	if override.Digest.PrioritySection != "" {
		base.Digest.PrioritySection = override.Digest.PrioritySection
	}
	if override.Digest.CatchAllSection != "" {
		base.Digest.CatchAllSection = override.Digest.CatchAllSection
	}
	if override.Digest.MaxPriorityStories > 0 {
		base.Digest.MaxPriorityStories = override.Digest.MaxPriorityStories
	}
	if override.Digest.MaxPerSection > 0 {
		base.Digest.MaxPerSection = override.Digest.MaxPerSection
	}
	if override.Digest.BatchSize > 0 {
		base.Digest.BatchSize = override.Digest.BatchSize
	}
	if len(override.Digest.ExclusionKeywords) > 0 {
		base.Digest.ExclusionKeywords = override.Digest.ExclusionKeywords
	}
	if len(override.Digest.OverflowGroups) > 0 {
		base.Digest.OverflowGroups = override.Digest.OverflowGroups
	}
	if len(override.Digest.SubmissionSections) > 0 {
		base.Digest.SubmissionSections = override.Digest.SubmissionSections
	}
	if len(override.Digest.SkipHeadlinePatterns) > 0 {
		base.Digest.SkipHeadlinePatterns = override.Digest.SkipHeadlinePatterns
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{
			CronExpression: "0 6 * * 1-4",
			Timezone:       "America/New_York",
			location:       tz,
		},
		Oracle: OracleConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			APIKey:       "",
			Instructions: "You are classifying New Jersey news stories for a daily newsletter.",
		},
		Submissions: SubmissionsConfig{
			BaseURL:  "",
			APIToken: "",
			DaysBack: defaultSubmissionsDays,
		},
		Mailer: MailerConfig{
			BaseURL:     "",
			APIKey:      "",
			ListID:      "",
			FromName:    "NJ News Commons",
			ReplyTo:     "info@centerforcooperativemedia.org",
			PreviewText: "The latest stories from across the NJ news ecosystem.",
		},
		Digest: DigestConfig{
			Sections: []SectionConfig{
				{Name: "top_stories", Display: "Top stories", Description: "Major breaking news, high-impact statewide stories, investigations, stories covered by multiple outlets"},
				{Name: "politics", Display: "Politics + government", Description: "Government, legislature, elections, campaigns, courts, police, corruption, budgets, taxes, voting"},
				{Name: "housing", Display: "Housing + development", Description: "Affordable housing, rent, development, zoning, real estate, homelessness, construction, warehouses"},
				{Name: "education", Display: "Work + education", Description: "Schools (K-12), universities, colleges, school boards, teachers, curriculum, education policy"},
				{Name: "health", Display: "Health + safety", Description: "Healthcare, hospitals, public health, mental health, addiction, insurance, medical issues"},
				{Name: "environment", Display: "Climate + environment", Description: "Climate, clean energy, weather, pollution, environmental regulations, offshore wind, PFAS"},
				{Name: "lastly", Display: "Lastly", Description: "Arts, culture, sports, entertainment, restaurants, community events, human interest, lighter news"},
			},
			PrioritySection:    "top_stories",
			CatchAllSection:    "lastly",
			MaxPriorityStories: defaultMaxPriority,
			MaxPerSection:      defaultMaxPerSection,
			BatchSize:          defaultBatchSize,
			ExclusionKeywords: []string{
				"crash", "collision", "crime", "shooting", "stabbing", "murder",
				"homicide", "carjacking", "robbery", "assault", "fatal", "killed",
				"fire", "blaze", "explosion", "drowning", "body found",
			},
			OverflowGroups: []KeywordGroupConfig{
				{Section: "politics", Keywords: []string{"governor", "legislature", "election", "court", "senate", "assembly"}},
				{Section: "housing", Keywords: []string{"housing", "rent", "development", "zoning", "affordable"}},
				{Section: "education", Keywords: []string{"school", "education", "university", "teacher", "college"}},
				{Section: "health", Keywords: []string{"health", "hospital", "covid", "medical"}},
				{Section: "environment", Keywords: []string{"climate", "environment", "energy", "pollution", "offshore wind"}},
			},
			SubmissionSections: map[string]string{
				"Top stories":           "top_stories",
				"Politics + government": "politics",
				"Housing + development": "housing",
				"Work + education":      "education",
				"Health + safety":       "health",
				"Climate + environment": "environment",
				"Lastly":                "lastly",
			},
			SkipHeadlinePatterns: []string{
				"newscast for", "morning edition", "evening edition", "daily briefing",
				"news roundup for", "weather forecast for", "traffic report",
				"this week on", "tonight on", "podcast:", "listen:", "watch:",
				"live stream", "livestream",
			},
		},
		Feeds: []FeedConfig{
			{
				Name:    "nj-spotlight",
				Scanner: "rss",
				Endpoints: []EndpointConfig{
					{Name: "news", URL: "https://www.njspotlightnews.org/feed/"},
				},
			},
		},
	}
}
