package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(oracleAPIKeyEnv, "")
	t.Setenv(oracleModelEnv, "")

	cfg := Load()

	if cfg.Scheduler.CronExpression != "0 6 * * 1-4" {
		t.Fatalf("unexpected cron expression: %s", cfg.Scheduler.CronExpression)
	}
	if cfg.Digest.PrioritySection != "top_stories" || cfg.Digest.CatchAllSection != "lastly" {
		t.Fatalf("unexpected section defaults: %s/%s", cfg.Digest.PrioritySection, cfg.Digest.CatchAllSection)
	}
	if cfg.Digest.MaxPriorityStories != 6 || cfg.Digest.BatchSize != 10 {
		t.Fatalf("unexpected digest limits: %d/%d", cfg.Digest.MaxPriorityStories, cfg.Digest.BatchSize)
	}
	if len(cfg.Digest.Sections) != 7 {
		t.Fatalf("expected 7 default sections, got %d", len(cfg.Digest.Sections))
	}
	if len(cfg.Digest.ExclusionKeywords) == 0 || len(cfg.Digest.OverflowGroups) == 0 {
		t.Fatal("exclusion keywords and overflow groups must have defaults")
	}
}

func TestLoadMergesYAMLOverDefaults(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: debug
scheduler:
  cronExpression: "30 7 * * 1-4"
oracle:
  model: gpt-4o
digest:
  maxPriorityStories: 4
`)
	t.Setenv(configPathEnv, path)
	t.Setenv(oracleAPIKeyEnv, "")
	t.Setenv(oracleModelEnv, "")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.Logging.Level)
	}
	if cfg.Scheduler.CronExpression != "30 7 * * 1-4" {
		t.Fatalf("unexpected cron expression: %s", cfg.Scheduler.CronExpression)
	}
	if cfg.Oracle.Model != "gpt-4o" {
		t.Fatalf("unexpected model: %s", cfg.Oracle.Model)
	}
	if cfg.Digest.MaxPriorityStories != 4 {
		t.Fatalf("unexpected priority cap: %d", cfg.Digest.MaxPriorityStories)
	}
	// Untouched values keep their defaults.
	if cfg.Scheduler.Timezone != "America/New_York" {
		t.Fatalf("timezone default lost: %s", cfg.Scheduler.Timezone)
	}
	if cfg.Digest.BatchSize != 10 {
		t.Fatalf("batch size default lost: %d", cfg.Digest.BatchSize)
	}
}

func TestLoadEnvOverridesWinOverFile(t *testing.T) {
	path := writeConfigFile(t, `
oracle:
  apiKey: from-file
  model: gpt-4o
`)
	t.Setenv(configPathEnv, path)
	t.Setenv(oracleAPIKeyEnv, "from-env")
	t.Setenv(oracleModelEnv, "")

	cfg := Load()

	if cfg.Oracle.APIKey != "from-env" {
		t.Fatalf("env override lost: %s", cfg.Oracle.APIKey)
	}
	if cfg.Oracle.Model != "gpt-4o" {
		t.Fatalf("file value lost: %s", cfg.Oracle.Model)
	}
}

func TestLoadBadConfigFileFallsBackToDefaults(t *testing.T) {
	path := writeConfigFile(t, "{{{ not yaml")
	t.Setenv(configPathEnv, path)
	t.Setenv(oracleAPIKeyEnv, "")
	t.Setenv(oracleModelEnv, "")

	cfg := Load()

	if cfg.Digest.PrioritySection != "top_stories" {
		t.Fatalf("defaults lost after parse failure: %s", cfg.Digest.PrioritySection)
	}
}

func TestLoadUnknownTimezoneRevertsToUTC(t *testing.T) {
	path := writeConfigFile(t, `
scheduler:
  timezone: Mars/Olympus_Mons
`)
	t.Setenv(configPathEnv, path)
	t.Setenv(oracleAPIKeyEnv, "")
	t.Setenv(oracleModelEnv, "")

	cfg := Load()

	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("expected UTC fallback, got %s", cfg.Scheduler.Location())
	}
}

func TestSubmissionSectionsDefaultVocabulary(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(oracleAPIKeyEnv, "")
	t.Setenv(oracleModelEnv, "")

	cfg := Load()

	if got := cfg.Digest.SubmissionSections["Politics + government"]; got != "politics" {
		t.Fatalf("unexpected mapping: %s", got)
	}
	if got := cfg.Digest.SubmissionSections["Lastly"]; got != "lastly" {
		t.Fatalf("unexpected mapping: %s", got)
	}
}
