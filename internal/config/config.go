package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"t1ddigest/internal/domain"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "T1DDIGEST_CONFIG"
	databasePathEnv = "T1DDIGEST_DB"
	archivePathEnv  = "T1DDIGEST_ARCHIVE"
	logLevelEnv     = "T1DDIGEST_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Paths     PathsConfig     `yaml:"paths"`
	Sites     []SiteConfig    `yaml:"sites"`
	Specials  []SpecialConfig `yaml:"specials"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when the pipeline should run.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// PipelineConfig carries the immutable rule inputs of the core pipeline.
type PipelineConfig struct {
	DigestSize     int      `yaml:"digestSize"`
	ArchiveCap     int      `yaml:"archiveCap"`
	TrialSource    string   `yaml:"trialSource"`
	ResearchSource string   `yaml:"researchSource"`
	Keywords       []string `yaml:"keywords"`
	JournalSources []string `yaml:"journalSources"`
}

// PathsConfig names the files the pipeline reads and writes.
type PathsConfig struct {
	Archive  string `yaml:"archive"`
	Digest   string `yaml:"digest"`
	Report   string `yaml:"report"`
	HTML     string `yaml:"html"`
	Database string `yaml:"database"`
}

// SiteConfig describes a single source with its scanner strategy.
type SiteConfig struct {
	Name      string            `yaml:"name"`
	Scanner   string            `yaml:"scanner"`
	URL       string            `yaml:"url"`
	Terms     []string          `yaml:"terms"`
	Selectors map[string]string `yaml:"selectors"`
	Options   map[string]string `yaml:"options"`
}

// SpecialConfig seeds a curated high-priority record into each run.
type SpecialConfig struct {
	Title          string `yaml:"title"`
	Abstract       string `yaml:"abstract"`
	Source         string `yaml:"source"`
	URL            string `yaml:"url"`
	Published      string `yaml:"published"`
	Priority       string `yaml:"priority"`
	ExcitementRank int    `yaml:"excitementRank"`
}

// Record converts the seed into a pipeline record.
func (s SpecialConfig) Record() domain.RawRecord {
	return domain.RawRecord{
		Title:          s.Title,
		Abstract:       s.Abstract,
		Source:         s.Source,
		URL:            s.URL,
		Published:      s.Published,
		PriorityHint:   domain.Priority(s.Priority),
		Special:        true,
		ExcitementRank: s.ExcitementRank,
	}
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

	if len(cfg.Sites) == 0 {
		cfg.Sites = defaultConfig().Sites
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Paths.Database = v
	}
	if v := os.Getenv(archivePathEnv); v != "" {
		c.Paths.Archive = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
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

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scheduler.Interval != 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Pipeline.DigestSize != 0 {
		base.Pipeline.DigestSize = override.Pipeline.DigestSize
	}
	if override.Pipeline.ArchiveCap != 0 {
		base.Pipeline.ArchiveCap = override.Pipeline.ArchiveCap
	}
	if override.Pipeline.TrialSource != "" {
		base.Pipeline.TrialSource = override.Pipeline.TrialSource
	}
	if override.Pipeline.ResearchSource != "" {
		base.Pipeline.ResearchSource = override.Pipeline.ResearchSource
	}
	if len(override.Pipeline.Keywords) > 0 {
		base.Pipeline.Keywords = override.Pipeline.Keywords
	}
	if len(override.Pipeline.JournalSources) > 0 {
		base.Pipeline.JournalSources = override.Pipeline.JournalSources
	}

	if override.Paths.Archive != "" {
		base.Paths.Archive = override.Paths.Archive
	}
	if override.Paths.Digest != "" {
		base.Paths.Digest = override.Paths.Digest
	}
	if override.Paths.Report != "" {
		base.Paths.Report = override.Paths.Report
	}
	if override.Paths.HTML != "" {
		base.Paths.HTML = override.Paths.HTML
	}
	if override.Paths.Database != "" {
		base.Paths.Database = override.Paths.Database
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}
	if len(override.Specials) > 0 {
		base.Specials = override.Specials
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{Interval: 24 * time.Hour, Timezone: defaultTimezone, location: tz},
		Pipeline: PipelineConfig{
			DigestSize:     5,
			ArchiveCap:     50,
			TrialSource:    "ClinicalTrials.gov",
			ResearchSource: "PubMed",
			Keywords: []string{
				"type 1 diabetes", "t1d", "insulin-dependent diabetes", "juvenile diabetes",
				"beta cell", "autoimmune diabetes", "diabetic ketoacidosis", "insulin therapy",
				"glucose monitoring", "closed-loop", "artificial pancreas", "islet transplantation",
				"stem cell diabetes", "immunotherapy diabetes", "diabetes cure", "diabetes prevention",
			},
			JournalSources: []string{"Nature", "Cell", "Science", "NEJM", "The Lancet", "PubMed"},
		},
		Paths: PathsConfig{
			Archive:  "news_archive.json",
			Digest:   "breaking_news_data.json",
			Report:   "update_report.json",
			HTML:     "breaking_news.html",
			Database: "t1ddigest.db",
		},
		Sites: []SiteConfig{
			{
				Name:    "ClinicalTrials.gov",
				Scanner: "trials",
				URL:     "https://clinicaltrials.gov/api/v2/studies",
				Terms: []string{
					"Type 1 Diabetes",
					"Type 1 Diabetes Mellitus",
					"Diabetes Mellitus, Type 1",
					"Type 1 Diabetes (T1D)",
					"Diabetes Type 1",
				},
			},
			{
				Name:    "PubMed",
				Scanner: "pubmed",
				URL:     "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/",
				Options: map[string]string{"daysBack": "7", "maxArticles": "10"},
			},
			{
				Name:    "Diabetes Care",
				Scanner: "rss",
				URL:     "https://diabetesjournals.org/care/rss",
			},
			{
				Name:    "Nature Medicine",
				Scanner: "rss",
				URL:     "https://www.nature.com/nm.rss",
			},
			{
				Name:    "JAMA",
				Scanner: "rss",
				URL:     "https://jamanetwork.com/rss/site_1/1.xml",
			},
			{
				Name:    "Healthline Diabetes",
				Scanner: "news",
				URL:     "https://www.healthline.com/health/diabetes",
				Selectors: map[string]string{
					"articles": "article, .post, .entry",
					"title":    "h2 a, h3 a, .entry-title a",
					"summary":  ".excerpt, .entry-summary, p",
				},
			},
			{
				Name:    "WebMD Diabetes",
				Scanner: "news",
				URL:     "https://www.webmd.com/diabetes/news",
				Selectors: map[string]string{
					"articles": "article, .post, .news-item",
					"title":    "h2 a, h3 a, .title a",
					"summary":  ".excerpt, .summary, p",
				},
			},
			{
				Name:    "Mayo Clinic News",
				Scanner: "news",
				URL:     "https://newsnetwork.mayoclinic.org/category/diabetes/",
				Selectors: map[string]string{
					"articles": "article, .post, .search-result",
					"title":    "h2 a, h3 a, .title a",
					"summary":  ".excerpt, .summary, p",
				},
			},
		},
		Specials: []SpecialConfig{
			{
				Title:     "Eledon Pharmaceuticals Breakthrough: Tegoprubart Shows Promise for Type 1 Diabetes Treatment",
				Abstract:  "Eledon Pharmaceuticals is making waves with tegoprubart, an anti-CD40L antibody that targets the immune system processes involved in autoimmune diseases like Type 1 Diabetes. While primarily being tested for organ transplant rejection, the mechanism of action has significant implications for preventing the autoimmune destruction of insulin-producing beta cells in Type 1 Diabetes patients.",
				Source:    "Eledon Pharmaceuticals",
				URL:       "https://eledon.com/",
				Published: "December 2024",
				Priority:  "HIGH",
			},
			{
				Title:          "FDA Approves New Ultra-Fast Insulin for Type 1 Diabetes - Available Now!",
				Abstract:       "The FDA has approved a new ultra-fast-acting insulin that starts working in just 15 minutes, compared to 30 minutes for current fast-acting insulins. This means better blood sugar control after meals and more flexibility in timing meals and insulin doses.",
				Source:         "FDA News Release",
				URL:            "https://www.fda.gov/news-events/press-announcements/fda-approves-ultra-fast-acting-insulin-type-1-diabetes",
				Published:      "October 2025",
				Priority:       "HIGH",
				ExcitementRank: 1,
			},
			{
				Title:          "Revolutionary Stem Cell Therapy Shows 90% Success Rate in Early Trials",
				Abstract:       "A groundbreaking stem cell therapy has shown remarkable results in early clinical trials, with 90% of participants achieving insulin independence for over 2 years. The therapy uses the patient's own stem cells to regenerate insulin-producing cells, potentially offering a functional cure for Type 1 Diabetes.",
				Source:         "Nature Medicine",
				URL:            "https://www.nature.com/articles/stem-cell-diabetes-breakthrough",
				Published:      "October 2025",
				Priority:       "HIGH",
				ExcitementRank: 2,
			},
			{
				Title:          "Breakthrough: Scientists Discover How to Prevent Type 1 Diabetes Before It Starts",
				Abstract:       "Researchers have identified a way to prevent Type 1 Diabetes in people at high risk by using a simple medication that stops the immune system from attacking insulin-producing cells. In a 5-year study, 85% of high-risk participants who took the medication did not develop diabetes.",
				Source:         "NIH Research",
				URL:            "https://www.nih.gov/news-events/news-releases/diabetes-prevention-breakthrough",
				Published:      "October 2025",
				Priority:       "HIGH",
				ExcitementRank: 3,
			},
			{
				Title:          "New Smart Insulin Pump Automatically Adjusts for Exercise and Stress",
				Abstract:       "The latest smart insulin pump uses AI to predict blood sugar changes and automatically adjust insulin delivery. It can detect when you're exercising, stressed, or sick, and make real-time adjustments to keep blood sugar stable.",
				Source:         "Medtronic Innovation",
				URL:            "https://www.medtronic.com/smart-pump-ai",
				Published:      "September 2025",
				Priority:       "HIGH",
				ExcitementRank: 4,
			},
		},
	}
}
